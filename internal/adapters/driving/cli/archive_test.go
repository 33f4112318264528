package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/archivist-cli/internal/core/ports/driving"
)

func newBufferedCommand() (*cobra.Command, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	return cmd, buf
}

func TestArchiveCmd_Flags(t *testing.T) {
	assert.NotNil(t, archiveCmd.Flags().Lookup("dry-run"))
	assert.NotNil(t, archiveCmd.Flags().Lookup("yes"))
	assert.NotNil(t, archiveCmd.Flags().Lookup("analyze-only"))
}

func TestPrintBatchSummary_Counts(t *testing.T) {
	cmd, buf := newBufferedCommand()

	printBatchSummary(cmd, &driving.BatchReport{
		Succeeded: 3,
		Failed:    1,
		Skipped:   2,
	})

	out := buf.String()
	assert.Contains(t, out, "Analysed")
	assert.Contains(t, out, "3")
	assert.Contains(t, out, "Failed")
	assert.Contains(t, out, "Skipped")
}

func TestPrintBatchSummary_ReportsPlanState(t *testing.T) {
	cmd, buf := newBufferedCommand()

	printBatchSummary(cmd, &driving.BatchReport{
		Succeeded: 1,
		PlanPath:  "/in/execution_plan.md",
		Executed:  false,
	})

	out := buf.String()
	assert.Contains(t, out, "execution_plan.md")
	assert.Contains(t, out, "Plan not executed.")
}

func TestConfirmOnTerminal_DeclinesWithoutTerminal(t *testing.T) {
	cmd, buf := newBufferedCommand()
	confirm := confirmOnTerminal(cmd)

	// Test processes have no terminal on stdin.
	assert.False(t, confirm("Apply 2 move(s)?"))
	assert.Contains(t, buf.String(), "--yes")
}
