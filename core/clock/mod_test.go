package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWall_Now(t *testing.T) {
	now := Wall{}.Now()

	require.InDelta(t, uint32(time.Now().Unix()), now, 2)
}

func TestFixed_Now(t *testing.T) {
	require.Equal(t, uint32(1500), Fixed{Time: 1500}.Now())
}
