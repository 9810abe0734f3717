package notifications

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/beevik/etree"

	"github.com/pytatbro/metaltrophysolidv/internal/services"
)

// toastAppID is the application identity Windows attributes toasts to. The
// Xbox overlay identity is registered on any machine with the Xbox app and
// renders achievement-styled notifications.
const toastAppID = "Microsoft.XboxGamingOverlay_8wekyb3d8bbwe!App"

type commandRunner func(ctx context.Context, name string, args ...string) error

// desktopSink shells out to the native notification tool for the current
// platform: notify-send on Linux, osascript on macOS, and a PowerShell toast
// on Windows.
type desktopSink struct {
	goos     string
	logger   *slog.Logger
	lookPath func(file string) (string, error)
	run      commandRunner
}

func newDesktopSink(logger *slog.Logger) *desktopSink {
	return &desktopSink{
		goos:     runtime.GOOS,
		logger:   logger,
		lookPath: exec.LookPath,
		run:      runCommand,
	}
}

func (d *desktopSink) Name() string { return "desktop" }

// Available reports whether the platform notification tool is on PATH.
func (d *desktopSink) Available() bool {
	tool := d.tool()
	if tool == "" {
		return false
	}
	_, err := d.lookPath(tool)
	return err == nil
}

func (d *desktopSink) tool() string {
	switch d.goos {
	case "linux":
		return "notify-send"
	case "darwin":
		return "osascript"
	case "windows":
		return "powershell"
	}
	return ""
}

func (d *desktopSink) Publish(ctx context.Context, n Notification) error {
	var err error
	switch d.goos {
	case "linux":
		err = d.publishLinux(ctx, n)
	case "darwin":
		err = d.publishDarwin(ctx, n)
	case "windows":
		err = d.publishWindows(ctx, n)
	default:
		err = fmt.Errorf("no desktop transport for %s", d.goos)
	}
	if err != nil {
		return services.Wrap(services.ErrNotification, "notifications", "publish", n.Title, err)
	}
	return nil
}

func (d *desktopSink) publishLinux(ctx context.Context, n Notification) error {
	args := []string{"--app-name", "trophyd"}
	if n.IconPath != "" {
		args = append(args, "--icon", n.IconPath)
	}
	args = append(args, n.Title, n.Body)
	return d.run(ctx, "notify-send", args...)
}

func (d *desktopSink) publishDarwin(ctx context.Context, n Notification) error {
	script := fmt.Sprintf("display notification %q with title %q", n.Body, n.Title)
	return d.run(ctx, "osascript", "-e", script)
}

func (d *desktopSink) publishWindows(ctx context.Context, n Notification) error {
	xml, err := toastXML(n)
	if err != nil {
		return fmt.Errorf("build toast xml: %w", err)
	}
	return d.run(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", toastScript(xml))
}

// toastXML renders the ToastGeneric payload. etree handles escaping so trophy
// titles can contain any text the game ships.
func toastXML(n Notification) (string, error) {
	doc := etree.NewDocument()
	toast := doc.CreateElement("toast")
	visual := toast.CreateElement("visual")
	binding := visual.CreateElement("binding")
	binding.CreateAttr("template", "ToastGeneric")
	binding.CreateElement("text").SetText(n.Title)
	binding.CreateElement("text").SetText(n.Body)
	if n.IconPath != "" {
		image := binding.CreateElement("image")
		image.CreateAttr("placement", "appLogoOverride")
		image.CreateAttr("src", "file:///"+filepath.ToSlash(n.IconPath))
	}
	return doc.WriteToString()
}

func toastScript(xml string) string {
	quoted := strings.ReplaceAll(xml, "'", "''")

	var b strings.Builder
	b.WriteString("[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null; ")
	b.WriteString("$xml = New-Object Windows.Data.Xml.Dom.XmlDocument; ")
	b.WriteString("$xml.LoadXml('")
	b.WriteString(quoted)
	b.WriteString("'); ")
	b.WriteString("$toast = New-Object Windows.UI.Notifications.ToastNotification $xml; ")
	b.WriteString("[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier('")
	b.WriteString(toastAppID)
	b.WriteString("').Show($toast)")
	return b.String()
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("%s: %w: %s", name, err, detail)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
