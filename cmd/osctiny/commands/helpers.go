package commands

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/antchfx/xmlquery"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/SUSE/osc-tiny/internal/constants"
	"github.com/SUSE/osc-tiny/pkg/osc"
	"github.com/SUSE/osc-tiny/pkg/oscclient"
)

// Output formats.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
	OutputFormatXML  = "xml"
)

// createClient builds an API client from flags and the osc config file.
// Flags win; when no credential flags are set, the osc config file
// supplies login and password for the selected instance.
func createClient() (osc.Client, error) {
	apiURL := viper.GetString("api")
	username := viper.GetString("username")
	password := viper.GetString("password")
	sshKey := viper.GetString("ssh-key")

	var opts []func(*osc.Config)

	if viper.GetBool("verbose") {
		opts = append(opts, func(cfg *osc.Config) {
			cfg.Debug = true
			cfg.Logger = newLogger()
		})
	}

	if username == "" && sshKey == "" {
		return oscclient.NewFromOscrc(apiURL, opts...)
	}

	if apiURL == "" {
		apiURL = constants.DefaultAPIURL
	}

	credential := osc.Credential{
		Username:   username,
		Password:   password,
		SSHKeyPath: sshKey,
	}

	if sshKey != "" && viper.GetBool("ask-passphrase") {
		passphrase, err := promptPassphrase()
		if err != nil {
			return nil, err
		}

		credential.Passphrase = passphrase
	}

	cfg := &osc.Config{
		APIURL:     apiURL,
		Credential: credential,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return oscclient.New(cfg)
}

// promptPassphrase reads the SSH key passphrase without echo.
func promptPassphrase() (string, error) {
	fmt.Fprint(os.Stderr, "SSH key passphrase: ")

	raw, err := term.ReadPassword(syscall.Stdin)

	fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}

	return string(raw), nil
}

// newLogger builds a zerolog-backed osc.Logger writing to stderr.
func newLogger() osc.Logger {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().Level(zerolog.DebugLevel)

	return &zerologAdapter{logger: logger}
}

type zerologAdapter struct {
	logger zerolog.Logger
}

func (a *zerologAdapter) emit(event *zerolog.Event, msg string, fields map[string]interface{}) {
	for key, value := range fields {
		event = event.Interface(key, value)
	}

	event.Msg(msg)
}

func (a *zerologAdapter) Debug(msg string, fields map[string]interface{}) {
	a.emit(a.logger.Debug(), msg, fields)
}

func (a *zerologAdapter) Info(msg string, fields map[string]interface{}) {
	a.emit(a.logger.Info(), msg, fields)
}

func (a *zerologAdapter) Warn(msg string, fields map[string]interface{}) {
	a.emit(a.logger.Warn(), msg, fields)
}

func (a *zerologAdapter) Error(msg string, fields map[string]interface{}) {
	a.emit(a.logger.Error(), msg, fields)
}

// entryAttr reads one attribute from each matching node.
func entryAttr(doc *xmlquery.Node, expr, attr string) []string {
	nodes := xmlquery.Find(doc, expr)

	values := make([]string, 0, len(nodes))
	for _, node := range nodes {
		values = append(values, node.SelectAttr(attr))
	}

	return values
}

// printXML writes a node's XML serialization to stdout.
func printXML(doc *xmlquery.Node) {
	output := doc.OutputXML(true)
	if !strings.HasSuffix(output, "\n") {
		output += "\n"
	}

	_, _ = os.Stdout.WriteString(output)
}
