package main

import "errors"

// ErrUsage occurs when the command line cannot be understood.
var ErrUsage = errors.New("invalid usage")
