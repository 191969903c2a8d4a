package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BarakBinyamin/ofxpostern/internal/common"
	"github.com/BarakBinyamin/ofxpostern/internal/models"
	"github.com/BarakBinyamin/ofxpostern/internal/ofx"
	"github.com/BarakBinyamin/ofxpostern/internal/services/probe"
	"github.com/BarakBinyamin/ofxpostern/internal/storage/cachefs"
)

const serverFixture = `OFXHEADER:100
DATA:OFXSGML
VERSION:102

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
<MSGSETLIST>
<SIGNONMSGSET>
<SIGNONMSGSETV1>
</SIGNONMSGSETV1>
</SIGNONMSGSET>
<BANKMSGSET>
<BANKMSGSETV1>
</BANKMSGSETV1>
</BANKMSGSET>
</MSGSETLIST>
<FINAME>Acme Bank
<ADDR1>123 Main St
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

func TestNewApp_Wiring(t *testing.T) {
	t.Setenv("OFXPOSTERN_DATA_PATH", t.TempDir())

	a, err := NewApp(Options{})
	require.NoError(t, err)

	assert.NotNil(t, a.Config)
	assert.NotNil(t, a.Logger)
	assert.NotNil(t, a.Client)
	assert.NotNil(t, a.Cache)
	assert.NotNil(t, a.ProbeService)
}

func TestNewApp_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OFXPOSTERN_DATA_PATH", dir)

	configPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[client]\ntimeout = \"7s\"\n"), 0o600))

	a, err := NewApp(Options{ConfigPath: configPath})
	require.NoError(t, err)
	assert.Equal(t, "7s", a.Config.Client.Timeout)
}

// Full pipeline against a local fixture server: probe, cache, report.
func TestProbePipeline_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ofx")
		w.Write([]byte(serverFixture))
	}))
	defer srv.Close()

	logger := common.NewSilentLogger()
	store := cachefs.NewStore(logger, t.TempDir())
	client := ofx.NewClient(ofx.WithLogger(logger))

	var out bytes.Buffer
	svc := probe.NewService(client, store, logger, probe.WithOutput(&out))

	identity := models.NewServerIdentity(srv.URL+"/ofx", "1001", "Acme")
	require.NoError(t, svc.Run(context.Background(), identity))

	output := out.String()
	assert.Contains(t, output, "Financial Institution")
	assert.Contains(t, output, "Name:    Acme Bank")
	assert.Contains(t, output, "Address: 123 Main St")
	assert.Contains(t, output, "FID: 1001")
	assert.Contains(t, output, "ORG: Acme")
	assert.Contains(t, output, "URL: https://www.acmebank.example")
	assert.Contains(t, output, "Capabilities")
	assert.Contains(t, output, "Banking")

	body, err := store.ReadBody(identity, ofx.RequestNameProfile)
	require.NoError(t, err)
	assert.Equal(t, serverFixture, body)
}
