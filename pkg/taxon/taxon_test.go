package taxon_test

import (
	"testing"

	"github.com/gnames/botdb/pkg/taxon"
	"github.com/stretchr/testify/assert"
)

func TestScientificName(t *testing.T) {
	tests := []struct {
		msg, genus, epithet, authority, want string
	}{
		{
			msg:       "full binomial with authority",
			genus:     "Rosa",
			epithet:   "rubiginosa",
			authority: "L.",
			want:      "Rosa rubiginosa L.",
		},
		{
			msg:     "no authority",
			genus:   "Quercus",
			epithet: "robur",
			want:    "Quercus robur",
		},
		{
			msg:       "surrounding spaces are trimmed",
			genus:     " Rosa ",
			epithet:   " canina ",
			authority: " L. ",
			want:      "Rosa canina L.",
		},
	}

	for _, v := range tests {
		res := taxon.ScientificName(v.genus, v.epithet, v.authority)
		assert.Equal(t, v.want, res, v.msg)
	}
}

func TestSpeciesScientificName(t *testing.T) {
	sp := taxon.Species{Epithet: "rubiginosa", Authority: "L."}
	assert.Equal(t, "Rosa rubiginosa L.", sp.ScientificName("Rosa"))
}

func TestValidName(t *testing.T) {
	tests := []struct {
		msg, name string
		want      bool
	}{
		{msg: "plain name", name: "Rosaceae", want: true},
		{msg: "empty", name: "", want: false},
		{msg: "blank", name: "   ", want: false},
		{msg: "inner space", name: "Rosa ceae", want: false},
		{msg: "control char", name: "Rosa\tceae", want: false},
	}

	for _, v := range tests {
		assert.Equal(t, v.want, taxon.ValidName(v.name), v.msg)
	}
}

func TestValidEpithet(t *testing.T) {
	tests := []struct {
		msg, epithet string
		want         bool
	}{
		{msg: "plain epithet", epithet: "rubiginosa", want: true},
		{msg: "internal hyphen", epithet: "uva-ursi", want: true},
		{msg: "empty", epithet: "", want: false},
		{msg: "leading hyphen", epithet: "-ursi", want: false},
		{msg: "digits", epithet: "rosa2", want: false},
	}

	for _, v := range tests {
		assert.Equal(t, v.want, taxon.ValidEpithet(v.epithet), v.msg)
	}
}

func TestValidAuthority(t *testing.T) {
	tests := []struct {
		msg, authority string
		want           bool
	}{
		{msg: "empty is fine", authority: "", want: true},
		{msg: "simple authority", authority: "L.", want: true},
		{msg: "composite authority", authority: "(DC.) Benth.", want: true},
		{msg: "control char", authority: "L.\n", want: false},
	}

	for _, v := range tests {
		assert.Equal(t, v.want, taxon.ValidAuthority(v.authority), v.msg)
	}
}
