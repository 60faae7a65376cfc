package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	t.Run("Facts keep declaration order", func(t *testing.T) {
		s := NewStore()
		names := []string{"abraham", "fillmore", "eisenhower"}
		for _, n := range names {
			_, err := s.Add(L("person", n))
			require.NoError(t, err)
		}
		require.Equal(t, 3, s.Len())
		for i, f := range s.Facts() {
			assert.Equal(t, "(person "+names[i]+")", f.Conclusion.String())
		}
		// Repeatable.
		assert.Equal(t, s.Facts(), s.Facts())
	})

	t.Run("Appending after Facts does not disturb a held slice", func(t *testing.T) {
		s := NewStore()
		_, _ = s.Add(L("a"))
		held := s.Facts()
		_, _ = s.Add(L("b"))
		assert.Len(t, held, 1)
		assert.Equal(t, 2, s.Len())
	})

	t.Run("Nil terms are rejected", func(t *testing.T) {
		s := NewStore()
		_, err := s.Add(nil)
		assert.ErrorIs(t, err, ErrNilTerm)

		_, err = s.Add(L("a"), L("b"), nil)
		assert.ErrorIs(t, err, ErrNilTerm)
		assert.Contains(t, err.Error(), "hypothesis 1")

		assert.ErrorIs(t, s.AddFact(nil), ErrNilTerm)
		assert.Equal(t, 0, s.Len())
	})

	t.Run("Hypotheses are copied", func(t *testing.T) {
		hyps := []Term{L("b")}
		f, err := NewFact(L("a"), hyps...)
		require.NoError(t, err)
		hyps[0] = L("c")
		assert.Equal(t, "(b)", f.Hypotheses[0].String())
		assert.True(t, f.IsRule())
		assert.False(t, MustFact(L("a")).IsRule())
	})
}
