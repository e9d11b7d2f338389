package conservation_test

import (
	"testing"

	"github.com/gnames/botdb/pkg/conservation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCodes(t *testing.T) {
	tests := []struct {
		msg  string
		cat  conservation.Category
		code string
	}{
		{msg: "not evaluated", cat: conservation.NotEvaluated, code: "NE"},
		{msg: "data deficient", cat: conservation.DataDeficient, code: "DD"},
		{msg: "least concern", cat: conservation.LeastConcern, code: "LC"},
		{msg: "near threatened", cat: conservation.NearThreatened, code: "NT"},
		{msg: "vulnerable", cat: conservation.Vulnerable, code: "VU"},
		{msg: "endangered", cat: conservation.Endangered, code: "EN"},
		{
			msg:  "critically endangered",
			cat:  conservation.CriticallyEndangered,
			code: "CR",
		},
		{msg: "extinct in wild", cat: conservation.ExtinctInWild, code: "EW"},
		{msg: "extinct", cat: conservation.Extinct, code: "EX"},
	}

	for _, v := range tests {
		assert.Equal(t, v.code, v.cat.String(), v.msg)

		cat, err := conservation.ParseCategory(v.code)
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.cat, cat, v.msg)
	}
}

func TestParseCategoryUnknown(t *testing.T) {
	_, err := conservation.ParseCategory("XX")
	assert.Error(t, err)

	_, err = conservation.ParseCategory("vu")
	assert.Error(t, err, "codes are case-sensitive")
}

func TestThreatened(t *testing.T) {
	threatened := []conservation.Category{
		conservation.Vulnerable, conservation.Endangered,
		conservation.CriticallyEndangered, conservation.ExtinctInWild,
		conservation.Extinct,
	}
	for _, c := range threatened {
		assert.True(t, c.Threatened(), c.String())
	}

	safe := []conservation.Category{
		conservation.NotEvaluated, conservation.DataDeficient,
		conservation.LeastConcern, conservation.NearThreatened,
	}
	for _, c := range safe {
		assert.False(t, c.Threatened(), c.String())
	}
}

func TestPriorityOrder(t *testing.T) {
	// Priority grows with extinction risk.
	order := []conservation.Category{
		conservation.LeastConcern, conservation.NearThreatened,
		conservation.Vulnerable, conservation.Endangered,
		conservation.CriticallyEndangered, conservation.ExtinctInWild,
		conservation.Extinct,
	}
	for i := 1; i < len(order); i++ {
		assert.Greater(t, order[i].Priority(), order[i-1].Priority(),
			order[i].String())
	}
}

func TestTrendRoundTrip(t *testing.T) {
	trends := []conservation.Trend{
		conservation.TrendUnknown, conservation.TrendIncreasing,
		conservation.TrendStable, conservation.TrendDecreasing,
	}
	for _, tr := range trends {
		res, err := conservation.ParseTrend(tr.String())
		require.NoError(t, err)
		assert.Equal(t, tr, res)
	}

	_, err := conservation.ParseTrend("sideways")
	assert.Error(t, err)
}

func TestValidDate(t *testing.T) {
	tests := []struct {
		msg, date string
		want      bool
	}{
		{msg: "well-formed", date: "2023-06-01", want: true},
		{msg: "leap day", date: "2024-02-29", want: true},
		{msg: "bad day", date: "2023-02-30", want: false},
		{msg: "wrong layout", date: "01/06/2023", want: false},
		{msg: "missing zero padding", date: "2023-6-1", want: false},
		{msg: "empty", date: "", want: false},
	}

	for _, v := range tests {
		assert.Equal(t, v.want, conservation.ValidDate(v.date), v.msg)
	}
}
