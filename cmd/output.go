package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/conneroisu/docket/internal/errors"
	"github.com/conneroisu/docket/internal/validation"
)

// writeOutput writes data to path, or to the command's stdout when path is
// empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := validation.ValidatePath(path); err != nil {
		return errors.NewValidationError(errors.ErrCodeValidationFailed, err.Error()).WithFile(path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapIO(err, errors.ErrCodeFileNotFound, "cannot write output").WithFile(path)
	}
	return nil
}

func readInput(path string) ([]byte, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeValidationFailed, err.Error()).WithFile(path)
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.ErrFileNotFound(path, err)
	}
	if err != nil {
		return nil, errors.WrapIO(err, errors.ErrCodeFileNotFound, "cannot read file").WithFile(path)
	}
	return data, nil
}
