package hledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerRun(t *testing.T) {
	r := NewRunner("sh", []string{"-c", `echo "$0 $1"`})

	out, err := r.Run(context.Background(), "print", "csv")
	require.NoError(t, err)
	assert.Equal(t, "print csv\n", out)
}

func TestRunnerFailure(t *testing.T) {
	r := NewRunner("sh", []string{"-c", "echo 'journal not found' >&2; exit 3"})

	_, err := r.Run(context.Background(), "prices")
	require.Error(t, err)

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, "journal not found\n", cmdErr.Stderr)
	assert.Contains(t, err.Error(), "exit status 3")
	assert.Contains(t, err.Error(), "journal not found")
}

func TestReadPrices(t *testing.T) {
	r := NewRunner("sh", []string{"-c", `test "$0" = prices && echo "P 2023-01-01 USD £0.82"`})

	quotes, err := ReadPrices(context.Background(), r, 0)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "USD", quotes[0].FromCurrency)
}

func TestReadPostingsFailureIsFatal(t *testing.T) {
	r := NewRunner("false", nil)

	postings, err := ReadPostings(context.Background(), r, 0)
	assert.Nil(t, postings)

	var cmdErr *CommandError
	assert.ErrorAs(t, err, &cmdErr)
}
