// Package nginx renders the server configuration served by the charms.
package nginx

import (
	"bytes"
	"text/template"

	"github.com/core-tools/hsu-charm-nginx/pkg/charmconfig"
	"github.com/core-tools/hsu-charm-nginx/pkg/errors"
)

const (
	ServiceName = "nginx"
	PackageName = "nginx"

	// MachineConfigPath is the site config on a machine install
	MachineConfigPath = "/etc/nginx/sites-available/default"

	// ContainerConfigPath is the site config inside the workload container
	ContainerConfigPath = "/etc/nginx/conf.d/default.conf"

	// ContentRoot is the document root of the default server
	ContentRoot = "/usr/share/nginx/html"
)

var serverTemplate = template.Must(template.New("server").Parse(`
server {
    listen       {{.Port}};
    listen  [::]:{{.Port}};
    server_name  localhost;

    location / {
        root   {{.Root}};
        index  index.html index.htm;
    }

    error_page   500 502 503 504  /50x.html;
    location = /50x.html {
        root   {{.Root}};
    }
}
`))

type serverParams struct {
	Port int
	Root string
}

// Render returns the server config listening on port over IPv4 and IPv6
func Render(port int) ([]byte, error) {
	if err := charmconfig.ValidatePort(port); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := serverTemplate.Execute(&buf, serverParams{Port: port, Root: ContentRoot}); err != nil {
		return nil, errors.NewInternalError("failed to render nginx config", err).WithContext("port", port)
	}
	return buf.Bytes(), nil
}
