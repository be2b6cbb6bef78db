package versioning

import (
	"testing"

	"github.com/PlakarKorp/go-betree/resources"
)

func TestVersionRoundTrip(t *testing.T) {
	v := FromString("1.2.3")
	if v.Major() != 1 || v.Minor() != 2 || v.Patch() != 3 {
		t.Fatalf("got %d.%d.%d; want 1.2.3", v.Major(), v.Minor(), v.Patch())
	}
	if v.String() != "1.2.3" {
		t.Fatalf("got %q; want %q", v.String(), "1.2.3")
	}
}

func TestRegistry(t *testing.T) {
	Register(resources.RT_LEAF_BLOCK, FromString("2.0.1"))
	if got := GetCurrentVersion(resources.RT_LEAF_BLOCK); got != NewVersion(2, 0, 1) {
		t.Fatalf("got %s; want 2.0.1", got)
	}
}
