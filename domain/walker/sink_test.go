package walker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_FirstReportWins(t *testing.T) {
	sink := &Sink{}

	require.NoError(t, sink.Report(Report{Response: "first"}))
	err := sink.Report(Report{Response: "second"})

	assert.ErrorIs(t, err, ErrAlreadyReported)
	require.NotNil(t, sink.Result())
	assert.Equal(t, "first", sink.Result().Response)
}

func TestSink_NoReport(t *testing.T) {
	sink := &Sink{}
	assert.Nil(t, sink.Result())
}

func TestSink_ResultIsCopy(t *testing.T) {
	sink := &Sink{}
	require.NoError(t, sink.Report(Report{Response: "kept"}))

	sink.Result().Response = "changed"

	assert.Equal(t, "kept", sink.Result().Response)
}
