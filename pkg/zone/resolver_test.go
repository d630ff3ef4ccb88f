package zone

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ftddns/ftddns/pkg/dnsprovider"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testResolver() *Resolver {
	zones := []dnsprovider.Zone{
		{ID: "/hostedzone/Z0AB12CD34EF", Name: "example.com."},
		{ID: "/hostedzone/Z9ZY87XW65VU", Name: "internal.example.org."},
		{ID: "/hostedzone/Z5NOTALLOWED", Name: "other.net."},
	}
	allowlist := []string{"Z0AB12CD34EF", "Z9ZY87XW65VU"}
	return Build(discardLogger(), zones, allowlist)
}

func TestResolve_ExactZone(t *testing.T) {
	r := testResolver()

	id, ok := r.Resolve("example.com")
	assert.True(t, ok)
	assert.Equal(t, "/hostedzone/Z0AB12CD34EF", id)
}

func TestResolve_Subdomain(t *testing.T) {
	r := testResolver()

	id, ok := r.Resolve("a.b.example.com")
	assert.True(t, ok)
	assert.Equal(t, "/hostedzone/Z0AB12CD34EF", id)

	exact, _ := r.Resolve("example.com")
	assert.Equal(t, exact, id, "subdomains resolve to the same zone as the apex")
}

func TestResolve_SuffixNeedsLabelBoundary(t *testing.T) {
	r := testResolver()

	_, ok := r.Resolve("notexample.com")
	assert.False(t, ok)

	_, ok = r.Resolve("com")
	assert.False(t, ok)
}

func TestResolve_ZoneNotInAllowlist(t *testing.T) {
	r := testResolver()

	_, ok := r.Resolve("host.other.net")
	assert.False(t, ok)
}

func TestResolve_TrailingDotAndCase(t *testing.T) {
	r := testResolver()

	id, ok := r.Resolve("Host.Example.COM.")
	assert.True(t, ok)
	assert.Equal(t, "/hostedzone/Z0AB12CD34EF", id)
}

func TestDomainIncluded(t *testing.T) {
	r := testResolver()

	assert.True(t, r.DomainIncluded("db.internal.example.org"))
	assert.False(t, r.DomainIncluded("example.org"))
}

// First allow-list match wins and consumes the entry, so a second zone whose
// identifier also contains the entry stays unbound.
func TestBuild_FirstMatchConsumesEntry(t *testing.T) {
	zones := []dnsprovider.Zone{
		{ID: "/hostedzone/ZSHARED1", Name: "first.example."},
		{ID: "/hostedzone/ZSHARED2", Name: "second.example."},
	}
	r := Build(discardLogger(), zones, []string{"ZSHARED"})

	_, ok := r.Resolve("first.example")
	assert.True(t, ok)
	_, ok = r.Resolve("second.example")
	assert.False(t, ok)
}
