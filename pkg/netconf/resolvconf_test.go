package netconf_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/miekg/dns"

	"github.com/onehostcloud/cloud-init/pkg/netconf"
)

const sampleResolvConf = "# generated by hand\n" +
	"nameserver 10.0.0.2 # primary\n" +
	"nameserver 10.0.0.3\n" +
	"\n" +
	"; local settings\n" +
	"domain internal.example\n" +
	"search internal.example corp.example\n" +
	"options timeout:2\n"

func TestResolvConfRoundTrip(t *testing.T) {
	rc := netconf.NewResolvConf(sampleResolvConf)
	got, err := rc.Render()
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if got != sampleResolvConf {
		t.Errorf("Render() = %q, want %q", got, sampleResolvConf)
	}
}

func TestResolvConfQueries(t *testing.T) {
	rc := netconf.NewResolvConf(sampleResolvConf)

	ns, err := rc.Nameservers()
	if err != nil {
		t.Fatalf("Nameservers() failed: %v", err)
	}
	// The inline comment is not part of the value, but the whitespace
	// before it is; compare trimmed.
	if len(ns) != 2 || strings.TrimSpace(ns[0]) != "10.0.0.2" || ns[1] != "10.0.0.3" {
		t.Errorf("Nameservers() = %q, want [10.0.0.2 10.0.0.3]", ns)
	}

	domain, ok, err := rc.LocalDomain()
	if err != nil {
		t.Fatalf("LocalDomain() failed: %v", err)
	}
	if !ok || domain != "internal.example" {
		t.Errorf("LocalDomain() = %q, %v, want internal.example, true", domain, ok)
	}

	sds, err := rc.SearchDomains()
	if err != nil {
		t.Fatalf("SearchDomains() failed: %v", err)
	}
	want := []string{"internal.example", "corp.example"}
	if !reflect.DeepEqual(sds, want) {
		t.Errorf("SearchDomains() = %v, want %v", sds, want)
	}
}

func TestResolvConfLocalDomainAbsent(t *testing.T) {
	rc := netconf.NewResolvConf("nameserver 10.0.0.2\n")
	domain, ok, err := rc.LocalDomain()
	if err != nil {
		t.Fatalf("LocalDomain() failed: %v", err)
	}
	if ok || domain != "" {
		t.Errorf("LocalDomain() = %q, %v, want absent", domain, ok)
	}
}

func TestResolvConfSetLocalDomain(t *testing.T) {
	rc := netconf.NewResolvConf("domain old.example\nnameserver 10.0.0.2\ndomain stale.example\n")
	if err := rc.SetLocalDomain("new.example"); err != nil {
		t.Fatalf("SetLocalDomain() failed: %v", err)
	}

	got, err := rc.Render()
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	want := "nameserver 10.0.0.2\ndomain new.example\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestAddNameserver(t *testing.T) {
	rc := netconf.NewResolvConf("# comment stays put\nnameserver 10.0.0.2\n")

	ns, err := rc.AddNameserver("10.0.0.3")
	if err != nil {
		t.Fatalf("AddNameserver() failed: %v", err)
	}
	want := []string{"10.0.0.2", "10.0.0.3"}
	if !reflect.DeepEqual(ns, want) {
		t.Errorf("AddNameserver() = %v, want %v", ns, want)
	}

	first, err := rc.Render()
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	// Second identical add is a no-op and the text does not change.
	ns, err = rc.AddNameserver("10.0.0.3")
	if err != nil {
		t.Fatalf("repeated AddNameserver() failed: %v", err)
	}
	if !reflect.DeepEqual(ns, want) {
		t.Errorf("repeated AddNameserver() = %v, want %v", ns, want)
	}
	second, err := rc.Render()
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if first != second {
		t.Errorf("no-op add changed the text: %q vs %q", first, second)
	}
	if !strings.HasPrefix(first, "# comment stays put\n") {
		t.Errorf("comment line lost: %q", first)
	}
}

func TestAddNameserverLimit(t *testing.T) {
	rc := netconf.NewResolvConf("nameserver 1.1.1.1\nnameserver 2.2.2.2\nnameserver 3.3.3.3\n")

	_, err := rc.AddNameserver("4.4.4.4")
	var limitErr *netconf.LimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("AddNameserver() error = %v, want *LimitError", err)
	}
	if limitErr.Limit != netconf.MaxNameservers {
		t.Errorf("LimitError.Limit = %d, want %d", limitErr.Limit, netconf.MaxNameservers)
	}

	// Document unchanged: still the original three, in order.
	ns, err := rc.Nameservers()
	if err != nil {
		t.Fatalf("Nameservers() failed: %v", err)
	}
	want := []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"}
	if !reflect.DeepEqual(ns, want) {
		t.Errorf("Nameservers() after failed add = %v, want %v", ns, want)
	}
}

func TestAddSearchDomainDedup(t *testing.T) {
	rc := netconf.NewResolvConf("search example.com\n")

	sds, err := rc.AddSearchDomain("example.com")
	if err != nil {
		t.Fatalf("AddSearchDomain() failed: %v", err)
	}
	if !reflect.DeepEqual(sds, []string{"example.com"}) {
		t.Errorf("AddSearchDomain() = %v, want [example.com]", sds)
	}

	got, err := rc.Render()
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if strings.Count(got, "search") != 1 {
		t.Errorf("duplicate add appended a second search line: %q", got)
	}
}

func TestAddSearchDomainCombinesLines(t *testing.T) {
	rc := netconf.NewResolvConf("search a.example\nnameserver 10.0.0.2\nsearch b.example c.example\n")

	sds, err := rc.AddSearchDomain("d.example")
	if err != nil {
		t.Fatalf("AddSearchDomain() failed: %v", err)
	}
	want := []string{"a.example", "b.example", "c.example", "d.example"}
	if !reflect.DeepEqual(sds, want) {
		t.Errorf("AddSearchDomain() = %v, want %v", sds, want)
	}

	got, err := rc.Render()
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	wantText := "nameserver 10.0.0.2\nsearch a.example b.example c.example d.example\n"
	if got != wantText {
		t.Errorf("Render() = %q, want %q", got, wantText)
	}
}

func TestAddSearchDomainCountLimit(t *testing.T) {
	rc := netconf.NewResolvConf("search a b c d e f\n")

	_, err := rc.AddSearchDomain("g")
	var limitErr *netconf.LimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("AddSearchDomain() error = %v, want *LimitError", err)
	}
	if limitErr.Limit != netconf.MaxSearchDomains {
		t.Errorf("LimitError.Limit = %d, want %d", limitErr.Limit, netconf.MaxSearchDomains)
	}

	sds, err := rc.SearchDomains()
	if err != nil {
		t.Fatalf("SearchDomains() failed: %v", err)
	}
	if !reflect.DeepEqual(sds, []string{"a", "b", "c", "d", "e", "f"}) {
		t.Errorf("SearchDomains() after failed add = %v", sds)
	}
}

func TestAddSearchDomainCharLimit(t *testing.T) {
	// Five 50-character domains: the joined list is 254 characters, so
	// the count ceiling is not yet hit but one more short domain pushes
	// the joined length past 256.
	long := make([]string, 5)
	for i := range long {
		long[i] = strings.Repeat(string(rune('a'+i)), 42) + ".example"
	}
	rc := netconf.NewResolvConf("search " + strings.Join(long, " ") + "\n")

	_, err := rc.AddSearchDomain("zz")
	var limitErr *netconf.LimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("AddSearchDomain() error = %v, want *LimitError", err)
	}
	if limitErr.Limit != netconf.MaxSearchChars {
		t.Errorf("LimitError.Limit = %d, want %d", limitErr.Limit, netconf.MaxSearchChars)
	}

	sds, err := rc.SearchDomains()
	if err != nil {
		t.Fatalf("SearchDomains() failed: %v", err)
	}
	if !reflect.DeepEqual(sds, long) {
		t.Errorf("SearchDomains() after failed add = %v, want %v", sds, long)
	}
}

func TestResolvConfFormatErrors(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantLine int
	}{
		{
			name:     "unexpected directive",
			text:     "foo bar\n",
			wantLine: 1,
		},
		{
			name:     "directive without value",
			text:     "nameserver 10.0.0.2\nsearch\n",
			wantLine: 2,
		},
		{
			name:     "line number skips comments and blanks",
			text:     "# header\n\nnameserver 10.0.0.2\nbogus thing\n",
			wantLine: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := netconf.NewResolvConf(tt.text)
			_, err := rc.Nameservers()
			var formatErr *netconf.FormatError
			if !errors.As(err, &formatErr) {
				t.Fatalf("Nameservers() error = %v, want *FormatError", err)
			}
			if formatErr.Line != tt.wantLine {
				t.Errorf("FormatError.Line = %d, want %d", formatErr.Line, tt.wantLine)
			}

			// The failure is sticky: nothing is queryable afterwards.
			if _, err := rc.SearchDomains(); !errors.As(err, &formatErr) {
				t.Errorf("SearchDomains() after failed parse = %v, want *FormatError", err)
			}
			if _, err := rc.Render(); err == nil {
				t.Error("Render() after failed parse succeeded")
			}
		})
	}
}

func TestRenderedOutputIsResolverReadable(t *testing.T) {
	rc := netconf.NewResolvConf("")
	if _, err := rc.AddNameserver("10.0.0.2"); err != nil {
		t.Fatalf("AddNameserver() failed: %v", err)
	}
	if _, err := rc.AddSearchDomain("internal.example"); err != nil {
		t.Fatalf("AddSearchDomain() failed: %v", err)
	}
	if err := rc.SetLocalDomain("internal.example"); err != nil {
		t.Fatalf("SetLocalDomain() failed: %v", err)
	}

	text, err := rc.Render()
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	cc, err := dns.ClientConfigFromReader(strings.NewReader(text))
	if err != nil {
		t.Fatalf("resolver library rejected rendered output: %v", err)
	}
	if !reflect.DeepEqual(cc.Servers, []string{"10.0.0.2"}) {
		t.Errorf("parsed servers = %v, want [10.0.0.2]", cc.Servers)
	}
}
