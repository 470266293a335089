package version

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/figgen/figgen-cli/cmd/feedback"
	"github.com/figgen/figgen-cli/internal/api/models"
)

// Address the daemon listens on unless told otherwise.
const (
	DefaultHostname = "localhost"
	DefaultPort     = "8800"
	ProgramName     = "figgen"
)

func NewVersionCmd(clientVersion string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of figgen",
		Run: func(cmd *cobra.Command, args []string) {
			port, _ := cmd.Flags().GetString("port")

			daemonVersion, err := getDaemonVersion(http.Client{}, port)
			if err != nil {
				feedback.Warnf("Warning: cannot get the running daemon version on %s:%s", DefaultHostname, port)
			}

			feedback.PrintResult(versionResult{
				Name:          ProgramName,
				Version:       clientVersion,
				DaemonVersion: daemonVersion,
			})
		},
	}
	cmd.Flags().String("port", DefaultPort, "The daemon network port")
	return cmd
}

// DaemonURL returns the address of a daemon endpoint.
func DaemonURL(port, path string) url.URL {
	return url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(DefaultHostname, port),
		Path:   path,
	}
}

func getDaemonVersion(httpClient http.Client, port string) (string, error) {
	httpClient.Timeout = time.Second

	u := DaemonURL(port, "/v1/version")
	resp, err := httpClient.Get(u.String())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code received")
	}

	var daemonResponse models.VersionResponse
	if err := json.NewDecoder(resp.Body).Decode(&daemonResponse); err != nil {
		return "", err
	}

	return daemonResponse.Version, nil
}

type versionResult struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	DaemonVersion string `json:"daemon_version,omitempty"`
}

func (r versionResult) String() string {
	resultMessage := fmt.Sprintf("%s version %s", ProgramName, r.Version)

	if r.DaemonVersion != "" {
		resultMessage = fmt.Sprintf("%s\ndaemon version: %s",
			resultMessage, r.DaemonVersion)
	}
	return resultMessage
}

func (r versionResult) Data() any {
	return r
}
