package workload

import (
	"github.com/core-tools/hsu-charm-nginx/pkg/nginx"
	"github.com/core-tools/hsu-charm-nginx/pkg/workload/processcontrol"
)

const (
	// NginxCommand runs nginx in the foreground as Pebble requires
	NginxCommand = "nginx-debug -g 'daemon off;'"

	// ThingEnvironmentKey exports the configured thing to the service
	ThingEnvironmentKey = "thing"
)

// NginxSystemdUnit describes the nginx package's own systemd unit
func NginxSystemdUnit() *SystemdUnit {
	return &SystemdUnit{
		Metadata: UnitMetadata{
			Name:        nginx.ServiceName,
			Description: "nginx installed from the distribution archive",
		},
		Control: processcontrol.SystemdControlConfig{
			UnitName: nginx.ServiceName + ".service",
		},
	}
}

// NginxPebbleUnit describes the nginx service of the workload container.
// thing is exported into the service environment.
func NginxPebbleUnit(thing string) *PebbleUnit {
	return &PebbleUnit{
		Metadata: UnitMetadata{
			Name:        nginx.ServiceName,
			Description: "nginx in the workload container",
		},
		ServiceName: nginx.ServiceName,
		Layer: processcontrol.Layer{
			Label:       nginx.ServiceName,
			Summary:     "nginx layer",
			Description: "pebble config layer for nginx",
			Services: map[string]processcontrol.ServiceSpec{
				nginx.ServiceName: {
					Override: processcontrol.OverrideReplace,
					Summary:  "nginx",
					Command:  NginxCommand,
					Startup:  processcontrol.StartupEnabled,
					Environment: map[string]string{
						ThingEnvironmentKey: thing,
					},
				},
			},
		},
	}
}
