package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/filedate-go/internal/output"
)

func writeDateReport(c *cli.Context, ctx *CommandContext, report *output.DateReport) error {
	opts := ctx.OutputOptions(c)
	writer := output.NewDateReportWriter(opts.Format)
	return writer.Write(report, opts)
}

func writeLogReport(c *cli.Context, ctx *CommandContext, report *output.LogReport) error {
	opts := ctx.OutputOptions(c)
	writer := output.NewLogReportWriter(opts.Format)
	return writer.Write(report, opts)
}
