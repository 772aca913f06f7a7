/*
Package cli provides command-line interface utilities for marcval.

The cli package includes output formatters, a progress reporter for batch
validation runs, and common CLI helpers used by the marcval command.

Output Formatting:

Command results render as text or JSON:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

Exit Codes:

Validation failure is distinct from tool failure: a batch with invalid
records exits with ExitInvalid (2), any other error with ExitFailure (1).
The mapping lives in ExitCode.
*/
package cli
