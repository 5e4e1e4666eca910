// Package configuration reads key files: plain text files made of [group]
// headers, each followed by key=value lines. Comment lines start with '#'.
package configuration

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type genericConfigProvider interface {
	Unmarshal(body []byte) (map[string]string, error)
}

type fileReader interface {
	ReadFile(name string) ([]byte, error)
}

// KeyFile is a parsed key file (map[group]map[key]value).
type KeyFile map[string]map[string]string

// Handler is the principal implementation for reading key files.
type Handler struct {
	genericHandler genericConfigProvider
	fileHandler    fileReader
}

// NewHandler returns a pointer to a new [Handler].
func NewHandler(genericHandler genericConfigProvider, fileHandler fileReader) *Handler {
	return &Handler{
		genericHandler: genericHandler,
		fileHandler:    fileHandler,
	}
}

// ReadKeyFile reads and parses the key file at filename. Groups that appear
// more than once are merged, later keys overriding earlier ones.
func (c *Handler) ReadKeyFile(filename string) (KeyFile, error) {
	data, err := c.fileHandler.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("(config-keyfile) failed to read: %w", err)
	}

	bodies, order, err := splitGroups(data)
	if err != nil {
		return nil, fmt.Errorf("(config-keyfile) %s: %w", filename, err)
	}

	kf := make(KeyFile, len(order))
	for _, group := range order {
		values, err := c.genericHandler.Unmarshal(bodies[group].Bytes())
		if err != nil {
			return nil, fmt.Errorf("(config-keyfile) %s [%s]: %w", filename, group, err)
		}
		kf[group] = values
	}

	return kf, nil
}

// splitGroups cuts a key file into the key=value bodies of its groups.
func splitGroups(data []byte) (map[string]*bytes.Buffer, []string, error) {
	bodies := make(map[string]*bytes.Buffer)
	order := []string{}

	var current *bytes.Buffer
	lineNo := 0

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			if !strings.HasSuffix(line, "]") || len(line) < 3 { //nolint:mnd
				return nil, nil, fmt.Errorf("%w: line %d: %q", ErrMalformedGroup, lineNo, line)
			}
			group := strings.TrimSpace(line[1 : len(line)-1])

			if _, exists := bodies[group]; !exists {
				bodies[group] = &bytes.Buffer{}
				order = append(order, group)
			}
			current = bodies[group]

			continue
		}

		if current == nil {
			return nil, nil, fmt.Errorf("%w: line %d", ErrKeyOutsideGroup, lineNo)
		}

		current.WriteString(line)
		current.WriteByte('\n')
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	return bodies, order, nil
}

// KeyToString returns the value of key in group.
func (c *Handler) KeyToString(kf KeyFile, group string, key string) (string, error) {
	values, exists := kf[group]
	if !exists {
		return "", fmt.Errorf("%w: [%s]", ErrMissingGroup, group)
	}

	value, exists := values[key]
	if !exists {
		return "", fmt.Errorf("%w: [%s] %s", ErrMissingKey, group, key)
	}

	return value, nil
}

// KeyToInt returns the value of key in group as a decimal integer.
func (c *Handler) KeyToInt(kf KeyFile, group string, key string) (int, error) {
	value, err := c.KeyToString(kf, group, key)
	if err != nil {
		return 0, err
	}

	intValue, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: [%s] %s=%q is not an integer", ErrInvalidValue, group, key, value)
	}

	return intValue, nil
}

// OSReader reads files from the operating system.
type OSReader struct{}

// ReadFile returns the contents of the named file.
func (*OSReader) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}
