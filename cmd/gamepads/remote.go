package main

import (
	"context"
	"log"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/phinze/gamepads/internal/coordinator"
	"github.com/phinze/gamepads/internal/device/remote"
)

var openBrowser bool

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Serve a touch page so a phone browser can play over the network",
	RunE:  runRemote,
}

func init() {
	remoteCmd.Flags().BoolVar(&openBrowser, "open", false, "open the pairing page in the local browser")
}

func runRemote(cmd *cobra.Command, args []string) error {
	log.Println("=== Gamepads Remote ===")
	log.Println("Press Ctrl+C to exit")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Remote.Token == "" {
		log.Println("Warning: no remote token set, anyone on the network can connect. Run 'gamepads setup' to add one.")
	}

	ctx, cancel := signalContext()
	defer cancel()

	t := newTally()
	p, err := buildPad(cfg, t)
	if err != nil {
		return err
	}

	srv := remote.New(remote.Options{
		Addr:   cfg.Remote.Listen,
		Token:  cfg.Remote.Token,
		Width:  float64(cfg.Screen.Width),
		Height: float64(cfg.Screen.Height),
		Layout: p.Layout.String(),
	})
	p.Arrange(srv)

	coord := coordinator.New(srv)
	for _, w := range p.Widgets() {
		if err := coord.Register(w); err != nil {
			return err
		}
	}
	if err := coord.Attach(srv); err != nil {
		return err
	}
	if err := srv.Open(); err != nil {
		return err
	}
	if err := coord.Start(ctx); err != nil {
		srv.Close()
		return err
	}

	port := portOf(srv.Addr())
	for _, host := range lanHosts() {
		log.Printf("Pair with: %s", srv.PairingURL(net.JoinHostPort(host, port)))
	}
	if openBrowser {
		if err := browser.OpenURL(srv.PairingURL(net.JoinHostPort("localhost", port))); err != nil {
			log.Printf("Warning: opening browser: %v", err)
		}
	}

	go t.logEvery(summaryPeriod, ctx.Done())
	go logConnections(ctx, srv, time.Second)
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	go coord.Run(ctx, coordinator.DefaultFrameInterval)

	err = srv.Listen(nil)
	coord.Stop()
	return err
}

// logConnections logs the number of connected browsers whenever it changes,
// until ctx is done.
func logConnections(ctx context.Context, srv interface{ Connections() int }, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := srv.Connections(); n != last {
				last = n
				log.Printf("Browsers connected: %d", n)
			}
		}
	}
}

func portOf(addr net.Addr) string {
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return strconv.Itoa(tcp.Port)
	}
	return "0"
}

// lanHosts returns the addresses a phone on the same network can use,
// falling back to the hostname.
func lanHosts() []string {
	var hosts []string
	addrs, err := net.InterfaceAddrs()
	if err == nil {
		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok || ipnet.IP.IsLoopback() || ipnet.IP.To4() == nil {
				continue
			}
			hosts = append(hosts, ipnet.IP.String())
		}
	}
	if len(hosts) == 0 {
		name, err := os.Hostname()
		if err != nil {
			name = "localhost"
		}
		hosts = append(hosts, name)
	}
	return hosts
}

