package cmd

import (
	"bytes"
	"strings"

	"github.com/achilleasa/lumen/device/software"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// List the programs provided by the software device and their parameters.
func ListPrograms(ctx *cli.Context) error {
	setupLogging(ctx)

	dev := software.New(1, 1)
	defer dev.Close()

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Program", "Parameters"})
	for _, name := range dev.ProgramNames() {
		prog, err := dev.Program(name)
		if err != nil {
			return err
		}
		table.Append([]string{name, strings.Join(prog.Params(), ", ")})
	}
	table.Render()

	logger.Noticef("device %s provides the following programs\n%s", dev.Name(), buf.String())
	return nil
}
