package lobby

import (
	"strings"

	"github.com/hilthontt/chessrooms/roomsdk"
)

type ErrorHandler func(str string) error

// NotBlank fails with err when str is empty or only whitespace.
func NotBlank(err error) ErrorHandler {
	return func(str string) error {
		if strings.TrimSpace(str) == "" {
			return err
		}
		return nil
	}
}

func MaxLen(n int, err error) ErrorHandler {
	return func(str string) error {
		if len([]rune(str)) > n {
			return err
		}
		return nil
	}
}

func Compose(input ...ErrorHandler) ErrorHandler {
	return func(str string) error {
		for _, f := range input {
			if err := f(str); err != nil {
				return err
			}
		}
		return nil
	}
}

var (
	checkName     = NotBlank(roomsdk.ErrMissingName)
	checkPassword = NotBlank(roomsdk.ErrMissingPassword)
)
