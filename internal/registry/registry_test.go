package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/symcreep/internal/config"
	"github.com/vk/symcreep/internal/model"
	"github.com/vk/symcreep/internal/solver"
)

type stubModel struct {
	def     *config.ModelDefinition
	initErr error
}

func (m *stubModel) Kind() string { return "stub" }

func (m *stubModel) Initialise(_ context.Context, def *config.ModelDefinition) error {
	m.def = def
	return m.initErr
}

func (m *stubModel) Fit(context.Context, solver.Solver, []*model.Dataset) (*model.FitResult, error) {
	return nil, nil
}

func (m *stubModel) Predict(context.Context, []*model.Dataset) ([]*model.Prediction, error) {
	return nil, nil
}

func (m *stubModel) DisplayExpressions(context.Context) ([]string, error) { return nil, nil }

func (m *stubModel) Evaluate(context.Context, string, map[string][]float64) ([]float64, error) {
	return nil, nil
}

type stubModule struct{ err error }

func (s stubModule) Register(r *Registry) {
	r.RegisterModel("stub", func() model.Model { return &stubModel{initErr: s.err} })
}

func TestRegistry_New(t *testing.T) {
	r := New()
	stubModule{}.Register(r)

	t.Run("registered kind", func(t *testing.T) {
		m, err := r.New("stub")
		require.NoError(t, err)
		assert.Equal(t, "stub", m.Kind())
	})

	t.Run("fresh instance per call", func(t *testing.T) {
		a, _ := r.New("stub")
		b, _ := r.New("stub")
		assert.NotSame(t, a, b)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := r.New("kr_X")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrModelNotFound))

		var nf *ModelNotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "kr_X", nf.Kind)
		assert.Equal(t, []string{"stub"}, nf.Available)
	})

	t.Run("duplicate registration panics", func(t *testing.T) {
		assert.Panics(t, func() { stubModule{}.Register(r) })
	})
}

func TestRegistry_Instantiate(t *testing.T) {
	ctx := context.Background()

	t.Run("initialises with the definition", func(t *testing.T) {
		r := New()
		stubModule{}.Register(r)
		def := &config.ModelDefinition{Kind: "stub", Name: "a"}

		m, err := r.Instantiate(ctx, def)
		require.NoError(t, err)
		assert.Same(t, def, m.(*stubModel).def)
	})

	t.Run("initialise failure", func(t *testing.T) {
		r := New()
		stubModule{err: errors.New("bad template")}.Register(r)
		_, err := r.Instantiate(ctx, &config.ModelDefinition{Kind: "stub", Name: "a"})
		assert.ErrorContains(t, err, `initialising model "a" (stub): bad template`)
	})
}

func TestRegistry_Validate(t *testing.T) {
	ctx := context.Background()
	r := New()
	stubModule{}.Register(r)

	cfg := config.NewModel()
	require.NoError(t, cfg.AddModel(&config.ModelDefinition{Kind: "stub", Name: "a"}))
	require.NoError(t, cfg.AddFit(&config.FitRecord{Model: "a", Expressions: map[string]string{"default": "x"}}))
	assert.NoError(t, r.Validate(ctx, cfg))

	require.NoError(t, cfg.AddModel(&config.ModelDefinition{Kind: "missing", Name: "b"}))
	require.NoError(t, cfg.AddFit(&config.FitRecord{Model: "c", Expressions: map[string]string{"default": "x"}}))
	err := r.Validate(ctx, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrModelNotFound))
	assert.ErrorContains(t, err, `fit "c" does not match any model`)
}
