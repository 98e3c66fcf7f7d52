package assets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAsset_CanIssue(t *testing.T) {
	require.True(t, Asset{Status: StatusAvailable}.CanIssue())
	require.False(t, Asset{Status: StatusAssigned}.CanIssue())
	require.False(t, Asset{Status: StatusRepair}.CanIssue())
	require.False(t, Asset{Status: StatusScrapped}.CanIssue())
}

func TestAsset_CanReturn(t *testing.T) {
	require.True(t, Asset{Status: StatusAssigned}.CanReturn())
	require.False(t, Asset{Status: StatusAvailable}.CanReturn())
	require.False(t, Asset{Status: StatusRepair}.CanReturn())
	require.False(t, Asset{Status: StatusScrapped}.CanReturn())
}

func TestIsValidStatus(t *testing.T) {
	for _, status := range []string{StatusAvailable, StatusAssigned, StatusRepair, StatusScrapped} {
		require.True(t, IsValidStatus(status))
	}
	require.False(t, IsValidStatus("lost"))
	require.False(t, IsValidStatus(""))
}
