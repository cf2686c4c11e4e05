package commands

import (
	"fmt"
	"io"

	cryptoService "github.com/allisson/passvault/internal/crypto/service"
)

// RunCreateSalt prints a base64 encoded random salt of length bytes.
func RunCreateSalt(writer io.Writer, length int) error {
	if length <= 0 {
		return fmt.Errorf("length must be a positive number, got: %d", length)
	}

	salt, err := cryptoService.GenerateSalt(length)
	if err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	_, err = fmt.Fprintln(writer, salt)
	return err
}
