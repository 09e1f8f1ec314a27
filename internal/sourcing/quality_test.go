package sourcing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurlaesthetic/sourcing-cli/internal/model"
)

func TestDedupKey(t *testing.T) {
	t.Parallel()

	a := model.SupplierProduct{Name: "Gel Polish Set!", Price: 4.50}
	b := model.SupplierProduct{Name: "gel POLISH set", Price: 3.10}
	c := model.SupplierProduct{Name: "gel polish set", Price: 7.00}

	// Same normalized name, same 5-unit price band.
	assert.Equal(t, DedupKey(a), DedupKey(b))
	// Next band up is a different key.
	assert.NotEqual(t, DedupKey(a), DedupKey(c))

	assert.Equal(t, "gel polish set_0", DedupKey(a))
	assert.Equal(t, "gel polish set_5", DedupKey(c))
}

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b model.SupplierProduct
		want int // sign of Compare(a, b)
	}{
		{
			name: "platform trust wins",
			a:    model.SupplierProduct{Platform: model.PlatformAlibaba, ExternalID: "x"},
			b:    model.SupplierProduct{Platform: model.PlatformShein, ExternalID: "y"},
			want: 1,
		},
		{
			name: "rating beats trust gap",
			a:    model.SupplierProduct{Platform: model.PlatformShein, ExternalID: "x", Rating: 4.8},
			b:    model.SupplierProduct{Platform: model.PlatformAlibaba, ExternalID: "y", Rating: 3.0},
			want: 1,
		},
		{
			name: "cheaper plausible price scores",
			a:    model.SupplierProduct{Platform: model.PlatformTemu, ExternalID: "x", Price: 2.00},
			b:    model.SupplierProduct{Platform: model.PlatformTemu, ExternalID: "y", Price: 3.00},
			want: 1,
		},
		{
			name: "near-zero price is noise, not a bargain",
			a:    model.SupplierProduct{Platform: model.PlatformTemu, ExternalID: "x", Price: 0.01},
			b:    model.SupplierProduct{Platform: model.PlatformTemu, ExternalID: "x", Price: 3.00},
			want: 0,
		},
		{
			name: "url and images break even quality",
			a:    model.SupplierProduct{Platform: model.PlatformTemu, ExternalID: "x", URL: "https://t.example/1", Images: []string{"i.jpg"}},
			b:    model.SupplierProduct{Platform: model.PlatformTemu, ExternalID: "y"},
			want: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.a, tt.b)
			switch {
			case tt.want > 0:
				assert.Positive(t, got)
			case tt.want < 0:
				assert.Negative(t, got)
			default:
				assert.Zero(t, got)
			}
		})
	}
}

func TestCompare_TieBreaksOnKey(t *testing.T) {
	t.Parallel()

	a := model.SupplierProduct{Platform: model.PlatformTemu, ExternalID: "aaa"}
	b := model.SupplierProduct{Platform: model.PlatformTemu, ExternalID: "bbb"}

	// Identical quality: the lexically smaller key wins, and the result
	// is antisymmetric so merge order cannot change the outcome.
	assert.Positive(t, Compare(a, b))
	assert.Negative(t, Compare(b, a))
}

func TestDedupe(t *testing.T) {
	t.Parallel()

	products := []model.SupplierProduct{
		{Platform: model.PlatformShein, ExternalID: "s1", Name: "Gel Polish Set", Price: 4.50},
		{Platform: model.PlatformAlibaba, ExternalID: "a1", Name: "GEL Polish Set", Price: 4.00, Rating: 4.5},
		{Platform: model.PlatformTemu, ExternalID: "t1", Name: "UV Lamp", Price: 12.00},
	}

	out := Dedupe(products)
	require.Len(t, out, 2)

	// First-seen order is preserved; the higher-quality Alibaba listing
	// replaces the Shein one inside its slot.
	assert.Equal(t, "a1", out[0].ExternalID)
	assert.Equal(t, "t1", out[1].ExternalID)
}

func TestDedupe_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Dedupe(nil))
}
