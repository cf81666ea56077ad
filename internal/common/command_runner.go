package common

import (
	"context"
	"fmt"

	"resumescreen/internal/errors"
)

// CreateInputFunc builds the operation input from the command arguments.
type CreateInputFunc[Input any] func(args []string) (Input, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// OperationFunc is one screening, translation or grammar operation.
type OperationFunc[Input, Output any] func(context.Context, Input) (Output, error)

// RunCommand encapsulates the common logic of file-based CLI commands: build
// the input, run the operation, then format and write the result.
func RunCommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	out *OutputHandler,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	operation OperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	if out == nil {
		out = NewOutputHandler(logger)
	}

	input, err := createInput(args)
	if err != nil {
		return fmt.Errorf("failed to create input: %w", err)
	}

	if logDetails != nil {
		logDetails(input, cmdConfig)
	}

	result, err := operation(ctx, input)
	if err != nil {
		return err
	}

	return out.HandleOutput(result, cmdConfig)
}
