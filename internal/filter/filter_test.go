package filter

import (
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate(t *testing.T) {
	t.Run("no parameters yields no constraint", func(t *testing.T) {
		frag, err := Date("", "", "")
		require.NoError(t, err)
		assert.Nil(t, frag)
	})

	t.Run("date together with from is rejected", func(t *testing.T) {
		_, err := Date("2023-05-10", "2023-05-01", "")
		assert.ErrorIs(t, err, ErrDateConflict)
	})

	t.Run("date together with upTo is rejected", func(t *testing.T) {
		_, err := Date("2023-05-10", "", "2023-05-20")
		assert.ErrorIs(t, err, ErrDateConflict)
	})

	t.Run("from and upTo combine into a closed range", func(t *testing.T) {
		frag, err := Date("", "2023-01-01", "2023-12-31")
		require.NoError(t, err)

		sql, args, err := sq.Select("*").From("transactions").Where(frag).ToSql()
		require.NoError(t, err)
		assert.Contains(t, sql, "date >= ?")
		assert.Contains(t, sql, "date <= ?")
		require.Len(t, args, 2)

		lower := args[0].(time.Time)
		upper := args[1].(time.Time)
		assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), lower)
		assert.Equal(t, time.Date(2023, 12, 31, 23, 59, 59, 999_000_000, time.UTC), upper)
	})

	t.Run("from alone is a lower bound at start of day", func(t *testing.T) {
		frag, err := Date("", "2023-04-30", "")
		require.NoError(t, err)

		_, args, err := sq.Select("*").From("transactions").Where(frag).ToSql()
		require.NoError(t, err)
		require.Len(t, args, 1)
		assert.Equal(t, time.Date(2023, 4, 30, 0, 0, 0, 0, time.UTC), args[0])
	})

	t.Run("date alone covers the whole day", func(t *testing.T) {
		frag, err := Date("2023-05-10", "", "")
		require.NoError(t, err)

		_, args, err := sq.Select("*").From("transactions").Where(frag).ToSql()
		require.NoError(t, err)
		require.Len(t, args, 2)
		assert.Equal(t, time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC), args[0])
		assert.Equal(t, time.Date(2023, 5, 10, 23, 59, 59, 999_000_000, time.UTC), args[1])
	})

	t.Run("time of day in the parameter is ignored", func(t *testing.T) {
		frag, err := Date("", "2023-04-30T18:22:01Z", "")
		require.NoError(t, err)

		_, args, err := sq.Select("*").From("transactions").Where(frag).ToSql()
		require.NoError(t, err)
		require.Len(t, args, 1)
		assert.Equal(t, time.Date(2023, 4, 30, 0, 0, 0, 0, time.UTC), args[0])
	})

	t.Run("unparseable values are rejected", func(t *testing.T) {
		_, err := Date("not-a-date", "", "")
		assert.ErrorIs(t, err, ErrInvalidDate)

		_, err = Date("", "not-a-date", "")
		assert.ErrorIs(t, err, ErrInvalidFrom)

		_, err = Date("", "", "not-a-date")
		assert.ErrorIs(t, err, ErrInvalidUpTo)
	})
}

func TestAmount(t *testing.T) {
	t.Run("no parameters yields no constraint", func(t *testing.T) {
		frag, err := Amount("", "")
		require.NoError(t, err)
		assert.Nil(t, frag)
	})

	t.Run("min and max combine into a closed range", func(t *testing.T) {
		frag, err := Amount("10", "50")
		require.NoError(t, err)

		sql, args, err := sq.Select("*").From("transactions").Where(frag).ToSql()
		require.NoError(t, err)
		assert.Contains(t, sql, "amount >= ?")
		assert.Contains(t, sql, "amount <= ?")
		assert.Equal(t, []interface{}{10, 50}, args)
	})

	t.Run("bounds are truncated to integers", func(t *testing.T) {
		frag, err := Amount("10.9", "")
		require.NoError(t, err)

		_, args, err := sq.Select("*").From("transactions").Where(frag).ToSql()
		require.NoError(t, err)
		assert.Equal(t, []interface{}{10}, args)
	})

	t.Run("non-numeric values are rejected", func(t *testing.T) {
		_, err := Amount("abc", "")
		assert.ErrorIs(t, err, ErrInvalidMin)

		_, err = Amount("", "abc")
		assert.ErrorIs(t, err, ErrInvalidMax)
	})
}
