package obs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDescribeSQL(t *testing.T) {
	name, op := describeSQL("-- name: ClaimVoucherUse :one\nUPDATE vouchers SET used_count = used_count + 1")
	require.Equal(t, "ClaimVoucherUse", name)
	require.Equal(t, "UPDATE", op)

	name, op = describeSQL("select 1")
	require.Equal(t, "pgx.select", name)
	require.Equal(t, "SELECT", op)

	name, _ = describeSQL("")
	require.Equal(t, "pgx.query", name)
}

func TestTruncateSQL(t *testing.T) {
	long := strings.Repeat("x", maxStatementLen+10)
	require.Len(t, truncateSQL(long), maxStatementLen+3)
}
