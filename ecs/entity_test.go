package ecs

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recorder struct {
	calls []string
}

func (r *recorder) add(s string) {
	r.calls = append(r.calls, s)
}

type alpha struct {
	Base
	name    string
	rec     *recorder
	initErr error
}

var alphaKind = NewKind[*alpha]()

func (a *alpha) Kind() ComponentID { return alphaKind.ID() }
func (a *alpha) Init() error {
	a.rec.add("init:" + a.name)
	return a.initErr
}
func (a *alpha) Update(time.Duration) { a.rec.add("update:" + a.name) }
func (a *alpha) Destroy()             { a.rec.add("destroy:" + a.name) }

type beta struct {
	Base
	rec *recorder
}

var betaKind = NewKind[*beta]()

func (b *beta) Kind() ComponentID       { return betaKind.ID() }
func (b *beta) Update(dt time.Duration) { b.rec.add("update:beta") }
func (b *beta) Destroy()                { b.rec.add("destroy:beta") }

// gamma has no hooks at all.
type gamma struct {
	Base
}

var gammaKind = NewKind[*gamma]()

func (g *gamma) Kind() ComponentID { return gammaKind.ID() }

func TestEntityComponentLookup(t *testing.T) {
	rec := &recorder{}
	e := NewEntity(1, 2)
	a := &alpha{name: "a", rec: rec}
	e.AddComponent(a)

	assert.True(t, e.HasComponent(alphaKind.ID()))
	assert.False(t, e.HasComponent(betaKind.ID()))
	assert.Same(t, e, a.Entity())

	got, ok := Get(e, alphaKind)
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = Get(e, betaKind)
	assert.False(t, ok)
	assert.False(t, Has(e, betaKind))
}

func TestEntityAddSameKindOverwrites(t *testing.T) {
	rec := &recorder{}
	e := NewEntity(0, 0)
	first := &alpha{name: "first", rec: rec}
	second := &alpha{name: "second", rec: rec}
	e.AddComponent(first).AddComponent(&beta{rec: rec}).AddComponent(second)

	got, ok := Get(e, alphaKind)
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Len(t, e.Components(), 2)
	assert.NotContains(t, rec.calls, "destroy:first")

	// the replacement keeps the first insertion slot
	e.Update(time.Millisecond)
	assert.Equal(t, []string{"init:second", "update:second", "update:beta"}, rec.calls)
}

func TestEntityRemoveComponentDestroys(t *testing.T) {
	rec := &recorder{}
	e := NewEntity(0, 0)
	e.AddComponent(&alpha{name: "a", rec: rec})

	assert.True(t, Remove(e, alphaKind))
	assert.Equal(t, []string{"destroy:a"}, rec.calls)
	assert.False(t, e.HasComponent(alphaKind.ID()))
	assert.False(t, Remove(e, alphaKind))
}

func TestEntityUpdateOrder(t *testing.T) {
	tests := []struct {
		name   string
		active bool
		want   []string
	}{
		{"active", true, []string{"init:a", "update:beta", "update:a"}},
		{"inactive", false, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := &recorder{}
			e := NewEntity(0, 0)
			e.AddComponent(&beta{rec: rec})
			e.AddComponent(&gamma{})
			e.AddComponent(&alpha{name: "a", rec: rec})
			e.SetActive(tc.active)

			e.Update(16 * time.Millisecond)
			assert.Equal(t, tc.want, rec.calls)
		})
	}
}

func TestEntityUpdateSkipsDisabled(t *testing.T) {
	rec := &recorder{}
	e := NewEntity(0, 0)
	b := &beta{rec: rec}
	b.SetEnabled(false)
	e.AddComponent(b)

	e.Update(time.Millisecond)
	assert.Empty(t, rec.calls)
}

func TestEntityInitOnceAndLateAdd(t *testing.T) {
	rec := &recorder{}
	e := NewEntity(0, 0)
	e.AddComponent(&alpha{name: "a", rec: rec, initErr: errors.New("boom")})

	err := e.Init()
	require.Error(t, err)
	require.NoError(t, e.Init())
	assert.Equal(t, []string{"init:a"}, rec.calls)

	rec.calls = nil
	e.RemoveComponent(alphaKind.ID())
	rec.calls = nil
	e.AddComponent(&alpha{name: "late", rec: rec})
	assert.Equal(t, []string{"init:late"}, rec.calls)
}

func TestEntityReportsUnclaimedInitErrors(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	m := NewEntityManager(zap.New(core))
	rec := &recorder{}

	e := m.CreateEntity(0, 0)
	require.NoError(t, e.Init())
	assert.NoError(t, e.InitErr())

	e.AddComponent(&alpha{name: "late", rec: rec, initErr: errors.New("no body")})
	require.ErrorContains(t, e.InitErr(), "no body")
	assert.Equal(t, 1, logs.FilterMessage("component init failed").Len())

	lazy := m.CreateEntity(0, 0)
	lazy.AddComponent(&alpha{name: "lazy", rec: rec, initErr: errors.New("no input")})
	lazy.Update(time.Millisecond)
	require.ErrorContains(t, lazy.InitErr(), "no input")
	assert.Equal(t, 2, logs.FilterMessage("component init failed").Len())

	detached := NewEntity(0, 0)
	detached.AddComponent(&alpha{name: "d", rec: rec, initErr: errors.New("x")})
	detached.Update(time.Millisecond)
	assert.Error(t, detached.InitErr())
	assert.Equal(t, 2, logs.Len())
}

func TestEntityDestroyIdempotent(t *testing.T) {
	rec := &recorder{}
	e := NewEntity(0, 0)
	e.AddComponent(&alpha{name: "a", rec: rec})
	e.AddComponent(&beta{rec: rec})

	e.Destroy()
	assert.Equal(t, []string{"destroy:a", "destroy:beta"}, rec.calls)
	assert.False(t, e.Active())
	assert.Empty(t, e.Components())

	e.Destroy()
	assert.Len(t, rec.calls, 2)
}

func TestEntityTags(t *testing.T) {
	e := NewEntity(0, 0).AddTag("player").AddTag("hero")
	assert.True(t, e.HasTag("player"))
	e.RemoveTag("player")
	assert.False(t, e.HasTag("player"))
	assert.True(t, e.HasTag("hero"))
}

func TestKindsAreDistinct(t *testing.T) {
	assert.NotEqual(t, alphaKind.ID(), betaKind.ID())
	assert.True(t, gammaKind.Valid())
	assert.False(t, Kind[*alpha]{}.Valid())
}

func TestAddRejectsMismatchedKind(t *testing.T) {
	e := NewEntity(0, 0)
	require.NoError(t, Add(e, alphaKind, &alpha{rec: &recorder{}}))
	assert.ErrorIs(t, Add[*alpha](nil, alphaKind, &alpha{}), ErrNilEntity)
}
