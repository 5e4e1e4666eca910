package configuration

import (
	"fmt"

	"github.com/joho/godotenv"
)

// GodotenvProvider is an implementation wrapping the Godotenv framework.
type GodotenvProvider struct{}

// Unmarshal parses a block of key=value lines into a map (map[key]value).
// Values follow dotenv rules: surrounding quotes are removed, a " #" starts
// an inline comment in unquoted values, and outside single quotes $NAME or
// ${NAME} is replaced by the value of an earlier key NAME in the same block,
// or by nothing. Only upper-case names are expanded.
func (*GodotenvProvider) Unmarshal(body []byte) (map[string]string, error) {
	data, err := godotenv.UnmarshalBytes(body)
	if err != nil {
		return nil, fmt.Errorf("(config-godotenv) %w", err)
	}

	return data, nil
}
