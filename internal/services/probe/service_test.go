package probe

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/BarakBinyamin/ofxpostern/internal/common"
	"github.com/BarakBinyamin/ofxpostern/internal/models"
	"github.com/BarakBinyamin/ofxpostern/internal/ofx"
	"github.com/BarakBinyamin/ofxpostern/internal/storage/cachefs"
)

const fixtureBody = `OFXHEADER:100

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<FI>
<ORG>Acme
<FID>1001
</FI>
</SONRS>
</SIGNONMSGSRSV1>
<PROFMSGSRSV1>
<PROFTRNRS>
<PROFRS>
<FINAME>Acme Bank
<CITY>Springfield
<STATE>IL
<POSTALCODE>62701
<COUNTRY>USA
<URL>https://www.acmebank.example
</PROFRS>
</PROFTRNRS>
</PROFMSGSRSV1>
</OFX>
`

// fakeClient returns a fixture response without network I/O.
type fakeClient struct {
	res   *models.OFXResponse
	err   error
	calls int
}

func (f *fakeClient) SendRequest(_ context.Context, requestName string, _ models.ServerIdentity) (*models.OFXResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.res, nil
}

func testIdentity() models.ServerIdentity {
	return models.NewServerIdentity("https://ofx.example.com/ofx", "1001", "Acme")
}

func TestService_Run(t *testing.T) {
	store := cachefs.NewStore(common.NewSilentLogger(), t.TempDir())
	client := &fakeClient{
		res: &models.OFXResponse{
			Headers: map[string]string{"Server": "Apache"},
			Text:    fixtureBody,
			Status:  200,
		},
	}

	var out bytes.Buffer
	svc := NewService(client, store, common.NewSilentLogger(), WithOutput(&out))

	if err := svc.Run(context.Background(), testIdentity()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if client.calls != 1 {
		t.Errorf("SendRequest called %d times, want exactly 1", client.calls)
	}

	output := out.String()
	for _, want := range []string{
		"ofxpostern: version",
		"Start: ",
		"  Sending <PROFRQ>",
		"End:   ",
		"Financial Institution",
		"Name:",
		"Acme Bank",
		"OFX Server",
		"FID: 1001",
		"ORG: Acme",
		"URL: https://www.acmebank.example",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}

	// The raw exchange is persisted for audit.
	body, err := store.ReadBody(testIdentity(), ofx.RequestNameProfile)
	if err != nil {
		t.Fatalf("ReadBody() error: %v", err)
	}
	if body != fixtureBody {
		t.Error("cached body is not byte-identical to the response text")
	}

	headers, err := store.ReadHeaders(testIdentity(), ofx.RequestNameProfile)
	if err != nil {
		t.Fatalf("ReadHeaders() error: %v", err)
	}
	if headers["Server"] != "Apache" {
		t.Errorf("cached Server header = %q, want Apache", headers["Server"])
	}
}

// A transport failure aborts the run: no cache entry, no report.
func TestService_Run_TransportError(t *testing.T) {
	store := cachefs.NewStore(common.NewSilentLogger(), t.TempDir())
	client := &fakeClient{err: errors.New("connection refused")}

	var out bytes.Buffer
	svc := NewService(client, store, common.NewSilentLogger(), WithOutput(&out))

	err := svc.Run(context.Background(), testIdentity())
	if err == nil {
		t.Fatal("expected Run() to fail on a transport error")
	}

	if _, err := store.ReadBody(testIdentity(), ofx.RequestNameProfile); err == nil {
		t.Error("no cache entry should be written for a failed request")
	}

	output := out.String()
	if strings.Contains(output, "Financial Institution") {
		t.Error("no report should be printed for a failed request")
	}
	if strings.Contains(output, "End:") {
		t.Error("the End progress line should not print for a failed request")
	}
}

// Two sessions against the same identity: the second response fully
// replaces the first in the cache.
func TestService_Run_SecondSessionReplacesCache(t *testing.T) {
	store := cachefs.NewStore(common.NewSilentLogger(), t.TempDir())

	first := &fakeClient{res: &models.OFXResponse{
		Headers: map[string]string{"Server": "first"},
		Text:    fixtureBody,
		Status:  200,
	}}
	second := &fakeClient{res: &models.OFXResponse{
		Headers: map[string]string{"Server": "second"},
		Text:    strings.Replace(fixtureBody, "Acme Bank", "Acme Bank Mk2", 1),
		Status:  200,
	}}

	logger := common.NewSilentLogger()
	var out bytes.Buffer

	if err := NewService(first, store, logger, WithOutput(&out)).Run(context.Background(), testIdentity()); err != nil {
		t.Fatalf("first Run() error: %v", err)
	}
	if err := NewService(second, store, logger, WithOutput(&out)).Run(context.Background(), testIdentity()); err != nil {
		t.Fatalf("second Run() error: %v", err)
	}

	body, err := store.ReadBody(testIdentity(), ofx.RequestNameProfile)
	if err != nil {
		t.Fatalf("ReadBody() error: %v", err)
	}
	if !strings.Contains(body, "Acme Bank Mk2") {
		t.Error("cache should hold the second session's body")
	}
	headers, err := store.ReadHeaders(testIdentity(), ofx.RequestNameProfile)
	if err != nil {
		t.Fatalf("ReadHeaders() error: %v", err)
	}
	if headers["Server"] != "second" {
		t.Errorf("cached Server header = %q, want second", headers["Server"])
	}
}
