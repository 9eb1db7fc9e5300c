package schedule

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobinPairCount(t *testing.T) {
	for n := 2; n <= 10; n++ {
		t.Run(fmt.Sprintf("%d_teams", n), func(t *testing.T) {
			ids := make([]int, n)
			for i := range ids {
				ids[i] = 100 + i
			}

			fixtures, err := RoundRobin(ids)
			require.NoError(t, err)

			want := n * (n - 1) / 2
			require.Len(t, fixtures, want)

			// Sequence numbers run 1..C(N,2) with no gaps.
			for i, f := range fixtures {
				assert.Equal(t, i+1, f.Seq)
			}

			// Each unordered pair appears exactly once.
			seen := make(map[[2]int]bool)
			for _, f := range fixtures {
				pair := [2]int{f.TeamAID, f.TeamBID}
				if pair[0] > pair[1] {
					pair[0], pair[1] = pair[1], pair[0]
				}
				assert.False(t, seen[pair], "pair %v generated twice", pair)
				seen[pair] = true
			}
			assert.Len(t, seen, want)
		})
	}
}

func TestRoundRobinEnumerationOrder(t *testing.T) {
	fixtures, err := RoundRobin([]int{1, 2, 3, 4})
	require.NoError(t, err)

	want := []Fixture{
		{Seq: 1, TeamAID: 1, TeamBID: 2},
		{Seq: 2, TeamAID: 1, TeamBID: 3},
		{Seq: 3, TeamAID: 1, TeamBID: 4},
		{Seq: 4, TeamAID: 2, TeamBID: 3},
		{Seq: 5, TeamAID: 2, TeamBID: 4},
		{Seq: 6, TeamAID: 3, TeamBID: 4},
	}
	assert.Equal(t, want, fixtures)
}

func TestRoundRobinNotEnoughTeams(t *testing.T) {
	_, err := RoundRobin(nil)
	require.ErrorIs(t, err, ErrNotEnoughTeams)

	_, err = RoundRobin([]int{42})
	require.ErrorIs(t, err, ErrNotEnoughTeams)
}
