package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/events/audit"
	"github.com/iov-one/vault/events/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cases := map[string]struct {
		content string
		missing bool
		want    Config
		wantErr *errors.Error
	}{
		"missing file": {
			missing: true,
			want:    Default(),
		},
		"empty file": {
			content: "",
			want:    Default(),
		},
		"full": {
			content: `
log_level: debug
events:
  log: false
  redis:
    address: localhost:6379
    db: 2
    stream: custody
    max_len: 1000
  audit:
    driver: sqlite3
    dsn: /var/vault/audit.db
`,
			want: Config{
				LogLevel: "debug",
				Events: Events{
					Redis: &redis.Config{Address: "localhost:6379", DB: 2, Stream: "custody", MaxLen: 1000},
					Audit: &audit.Config{Driver: "sqlite3", DSN: "/var/vault/audit.db"},
				},
			},
		},
		"unknown log level": {
			content: "log_level: loud\n",
			wantErr: errors.ErrInvalidConfiguration,
		},
		"amqp without url": {
			content: "events:\n  amqp:\n    exchange: x\n",
			wantErr: errors.ErrInvalidConfiguration,
		},
		"unsupported audit driver": {
			content: "events:\n  audit:\n    driver: postgres\n    dsn: x\n",
			wantErr: errors.ErrInvalidConfiguration,
		},
		"malformed yaml": {
			content: "log_level: [\n",
			wantErr: errors.ErrInvalidConfiguration,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			dir, err := ioutil.TempDir("", "vault-config-")
			require.NoError(t, err)
			defer os.RemoveAll(dir)

			path := filepath.Join(dir, FileName)
			if !tc.missing {
				require.NoError(t, ioutil.WriteFile(path, []byte(tc.content), 0600))
			}

			got, err := Load(path)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestWriteLoad(t *testing.T) {
	dir, err := ioutil.TempDir("", "vault-config-")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, FileName)
	c := Default()
	c.Events.Audit = &audit.Config{Driver: "mysql", DSN: "vault:secret@tcp(localhost:3306)/vault"}
	require.NoError(t, Write(path, c))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}
