package semver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Version
		wantErr bool
	}{
		{in: "1.2.3", want: Version{1, 2, 3}},
		{in: "0.0.0", want: Version{0, 0, 0}},
		{in: "10.20.30", want: Version{10, 20, 30}},
		{in: "01.2.3", want: Version{1, 2, 3}}, // leading zeros renormalise
		{in: "1.2", wantErr: true},
		{in: "1.2.3.4", wantErr: true},
		{in: "v1.2.3", wantErr: true},
		{in: "1.2.3-rc1", wantErr: true},
		{in: "1.2.x", wantErr: true},
		{in: "", wantErr: true},
		{in: "garbage", wantErr: true},
		{in: "-1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := Parse(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.2.3", "1.2.2", 1},
		{"1.2.3", "1.2.3", 0},
		{"1.2.3", "1.2.4", -1},
		{"1.10.0", "1.9.9", 1}, // numeric, not lexical
		{"2.0.0", "1.99.99", 1},
		{"0.0.1", "0.0.0", 1},
	}

	for _, tt := range tests {
		a, err := Parse(tt.a)
		require.NoError(t, err)
		b, err := Parse(tt.b)
		require.NoError(t, err)
		assert.Equal(t, tt.want, Compare(a, b), "%s vs %s", tt.a, tt.b)
	}
}

func TestBump(t *testing.T) {
	v := Version{1, 2, 3}

	patch, err := v.Bump("patch")
	require.NoError(t, err)
	assert.Equal(t, "1.2.4", patch.String())

	minor, err := v.Bump("minor")
	require.NoError(t, err)
	assert.Equal(t, "1.3.0", minor.String())

	major, err := v.Bump("major")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", major.String())

	_, err = v.Bump("prerelease")
	require.Error(t, err)
}

func TestTag(t *testing.T) {
	v := Version{1, 2, 3}
	assert.Equal(t, "v1.2.3", v.Tag("v"))
	assert.Equal(t, "release-1.2.3", v.Tag("release-"))
}

func TestSuggestions(t *testing.T) {
	s := Version{1, 2, 3}.Suggestions()
	assert.Equal(t, "1.2.4", s[0].String())
	assert.Equal(t, "1.3.0", s[1].String())
	assert.Equal(t, "2.0.0", s[2].String())
}
