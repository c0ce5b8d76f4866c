// Command flexi-monitor prints every message arriving on a MIDI input the way
// a binding in the config file describes it.
package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/PixPMusic/gopher-flexi/internal/midi"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/xlab/closer"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	triggerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Width(24)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Width(12)
	configStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	skipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#880000"))
)

// describe renders one raw message as a monitor line
func describe(raw []byte) string {
	ev, err := midi.Decode(raw)
	if errors.Is(err, midi.ErrNotBindable) {
		return skipStyle.Render(fmt.Sprintf("% X (not bindable)", raw))
	}
	if err != nil {
		return errStyle.Render(err.Error())
	}

	t := ev.Trigger
	record := fmt.Sprintf("message_type: %s, channel: %d", t.Kind, t.Channel)
	if t.Kind.HasData1() {
		record += fmt.Sprintf(", number: %d", t.Data1)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		triggerStyle.Render(t.String()),
		valueStyle.Render(fmt.Sprintf("value=%d", ev.Value)),
		configStyle.Render(record),
	)
}

// findPort returns the first port whose name contains substr, ignoring case
func findPort(ports []string, substr string) (string, bool) {
	substr = strings.ToLower(substr)
	for _, p := range ports {
		if strings.Contains(strings.ToLower(p), substr) {
			return p, true
		}
	}
	return "", false
}

func main() {
	defer closer.Close()

	portName := flag.String("port", "", "Input port to monitor (case-insensitive substring)")
	list := flag.Bool("list", false, "List MIDI ports and exit")
	flag.Parse()

	log := logrus.New()
	manager := midi.NewManager(log)
	closer.Bind(manager.Close)

	ins := manager.ListInPorts()
	if *list || *portName == "" {
		fmt.Println(titleStyle.Render("Inputs"))
		for _, p := range ins {
			fmt.Println("  " + p)
		}
		fmt.Println(titleStyle.Render("Outputs"))
		for _, p := range manager.ListOutPorts() {
			fmt.Println("  " + p)
		}
		return
	}

	port, ok := findPort(ins, *portName)
	if !ok {
		closer.Fatalln("[ERR] no input port matches", *portName)
	}

	stop, err := manager.StartListening(port, func(_ string, raw []byte) {
		fmt.Println(describe(raw))
	})
	if err != nil {
		closer.Fatalln("[ERR] cannot listen:", err)
	}
	closer.Bind(stop)

	fmt.Println(titleStyle.Render("Monitoring " + port + " (Ctrl+C to quit)"))
	closer.Hold()
}
