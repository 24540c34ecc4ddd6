package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/rootgridgo/internal/config"
)

func noopAction() *RegisteredAction {
	return &RegisteredAction{
		NewInput: func() any { return new(struct{}) },
		Check:    func(ctx context.Context, deps *StepContext, input any) (bool, error) { return false, nil },
		Run:      func(ctx context.Context, deps *StepContext, input any) error { return nil },
	}
}

func TestRegisterAction_DuplicatePanics(t *testing.T) {
	t.Parallel()

	r := New()
	r.RegisterAction("run_command", noopAction())

	assert.Panics(t, func() {
		r.RegisterAction("run_command", noopAction())
	})
}

func TestAction_Lookup(t *testing.T) {
	t.Parallel()

	r := New()
	r.RegisterAction("copy_file", noopAction())

	a, ok := r.Action("copy_file")
	assert.True(t, ok)
	assert.NotNil(t, a)

	_, ok = r.Action("teleport_files")
	assert.False(t, ok)
}

func TestActionNames_Sorted(t *testing.T) {
	t.Parallel()

	r := New()
	r.RegisterAction("run_command", noopAction())
	r.RegisterAction("copy_file", noopAction())
	r.RegisterAction("ensure_dir", noopAction())

	assert.Equal(t, []string{"copy_file", "ensure_dir", "run_command"}, r.ActionNames())
}

func TestValidate_ReportsUnknownActionType(t *testing.T) {
	t.Parallel()

	r := New()
	r.RegisterAction("ensure_dir", noopAction())

	model := &config.Model{Steps: []*config.Step{
		{Action: "ensure_dir", Name: "etc"},
		{Action: "teleport_files", Name: "magic"},
	}}

	err := r.Validate(model)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown action type "teleport_files"`)

	require.NoError(t, r.Validate(&config.Model{Steps: model.Steps[:1]}))
}
