package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/archivist-cli/internal/core/domain"
)

// Op is the kind of filesystem action a step performs.
type Op string

const (
	// OpMkdir creates a destination folder.
	OpMkdir Op = "mkdir"

	// OpMove renames a document into its destination folder.
	OpMove Op = "move"
)

// Step is one filesystem action in an execution plan.
type Step struct {
	// Op selects the action.
	Op Op

	// Source is the file being moved; empty for mkdir steps.
	Source string

	// Dest is the directory to create, or the file's destination path.
	Dest string
}

// Plan is the ordered list of actions that realises a Structure.
// Folders come first so every move has an existing destination.
type Plan struct {
	// Root is the directory the plan operates under.
	Root string

	// Steps are applied in order.
	Steps []Step
}

// NewPlan derives the executable steps from the analysed records.
// Each document moves from its current path into root/<folder>/<name>,
// with the name disambiguated per destination folder so no two moves
// share a target.
func NewPlan(root string, records []domain.Record) *Plan {
	p := &Plan{Root: root}

	assignments := assignDestinations(root, records)

	folders := make(map[string]struct{})
	for _, a := range assignments {
		folders[a.folder] = struct{}{}
	}
	names := make([]string, 0, len(folders))
	for folder := range folders {
		names = append(names, folder)
	}
	sort.Strings(names)
	for _, folder := range names {
		p.Steps = append(p.Steps, Step{Op: OpMkdir, Dest: filepath.Join(root, folder)})
	}

	for _, a := range assignments {
		p.Steps = append(p.Steps, Step{
			Op:     OpMove,
			Source: a.source,
			Dest:   filepath.Join(root, a.folder, a.name),
		})
	}
	return p
}

// Moves counts the move steps in the plan.
func (p *Plan) Moves() int {
	n := 0
	for _, step := range p.Steps {
		if step.Op == OpMove {
			n++
		}
	}
	return n
}

// Markdown renders the plan as a reviewable document with the equivalent
// shell commands, so a cautious user can inspect or even run it by hand.
func (p *Plan) Markdown() string {
	var b strings.Builder
	b.WriteString("# Execution Plan\n\n")
	fmt.Fprintf(&b, "Root: `%s`\n\n", p.Root)
	fmt.Fprintf(&b, "%d folder(s), %d move(s).\n\n", len(p.Steps)-p.Moves(), p.Moves())
	b.WriteString("```bash\n")
	for _, step := range p.Steps {
		switch step.Op {
		case OpMkdir:
			fmt.Fprintf(&b, "mkdir -p %q\n", step.Dest)
		case OpMove:
			fmt.Fprintf(&b, "mv %q %q\n", step.Source, step.Dest)
		}
	}
	b.WriteString("```\n")
	return b.String()
}

// WriteMarkdown persists the rendered plan for review before execution.
func (p *Plan) WriteMarkdown(path string) error {
	if err := os.WriteFile(path, []byte(p.Markdown()), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrFilesystem, path, err)
	}
	return nil
}
