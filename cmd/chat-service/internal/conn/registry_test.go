package conn

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChannel struct {
	id string
}

func (s *stubChannel) Send(v any) error { return nil }
func (s *stubChannel) Close() error     { return nil }

func TestRegistryRoundTrip(t *testing.T) {
	r := NewRegistry()
	key := UserKey("acme", "u1")
	ch := &stubChannel{id: "a"}

	r.Register(key, ch)
	got, ok := r.Lookup(key)
	require.True(t, ok)
	assert.Same(t, ch, got)

	r.Unregister(key)
	_, ok = r.Lookup(key)
	assert.False(t, ok)
}

func TestRegisterReplacesPriorChannel(t *testing.T) {
	r := NewRegistry()
	key := AgentKey("a1")
	first := &stubChannel{id: "first"}
	second := &stubChannel{id: "second"}

	r.Register(key, first)
	r.Register(key, second)

	got, ok := r.Lookup(key)
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 1, r.Count())
}

func TestUnregisterAbsentIsNoop(t *testing.T) {
	r := NewRegistry()
	r.Unregister(UserKey("acme", "ghost"))
	assert.Equal(t, 0, r.Count())
}

func TestLookupAbsent(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Lookup(AgentKey("nobody"))
	assert.False(t, ok)
}

func TestUserAndAgentKeysDoNotCollide(t *testing.T) {
	r := NewRegistry()
	userCh := &stubChannel{id: "user"}
	agentCh := &stubChannel{id: "agent"}

	// same raw identifier, different party kinds
	r.Register(UserKey("", "x"), userCh)
	r.Register(AgentKey("x"), agentCh)

	got, ok := r.Lookup(AgentKey("x"))
	require.True(t, ok)
	assert.Same(t, agentCh, got)

	got, ok = r.Lookup(UserKey("", "x"))
	require.True(t, ok)
	assert.Same(t, userCh, got)
}

func TestCompositeKeyEquality(t *testing.T) {
	assert.Equal(t, UserKey("acme", "u1"), UserKey("acme", "u1"))
	assert.NotEqual(t, UserKey("acme", "u1"), UserKey("acme", "u2"))
	assert.NotEqual(t, UserKey("ac", "meu1"), UserKey("acme", "u1"))
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := UserKey("acme", fmt.Sprintf("u%d", i%10))
			ch := &stubChannel{}
			r.Register(key, ch)
			r.Lookup(key)
			r.Unregister(key)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, r.Count())
}
