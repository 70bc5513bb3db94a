package util

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/reconquest/karma-go"
)

type Credentials struct {
	Token   string
	BaseURL string
}

func GetCredentials(token string, baseURL string) (*Credentials, error) {
	if token == "" {
		return nil, errors.New(
			"a Notion integration token should be specified using -t " +
				"flag or be stored in the configuration file",
		)
	}

	if token == "-" {
		stdin, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, karma.Format(
				err,
				"unable to read token from stdin",
			)
		}

		token = strings.TrimSpace(string(stdin))
	}

	return &Credentials{
		Token:   token,
		BaseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}
