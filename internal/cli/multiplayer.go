package cli

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"github.com/bulbousnub/wats-go/internal/discovery"
	"github.com/bulbousnub/wats-go/internal/model"
	"github.com/bulbousnub/wats-go/internal/session"
	"github.com/bulbousnub/wats-go/internal/transport/ws"
)

func newHostCmd() *cobra.Command {
	var (
		name         string
		addr         string
		code         string
		showQR       bool
		tlsCert      string
		tlsKey       string
		pickSeconds  int
		judgeSeconds int
	)

	cmd := &cobra.Command{
		Use:   "host",
		Short: "Host a multiplayer lobby (you're the judge)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if code == "" {
				code = session.GenerateCode(app.Random)
			}
			code = session.NormalizeCode(code)

			me := model.MPPlayer{ID: uuid.New(), Name: name}
			mgr := app.Session

			transport := ws.NewHost(ws.HostConfig{
				Addr:    addr,
				TLSCert: tlsCert,
				TLSKey:  tlsKey,
			}, mgr, app.Logger)
			if err := transport.Start(); err != nil {
				return err
			}
			mgr.Host(code, me, transport)
			defer mgr.Stop()

			advertiser, err := discovery.Advertise(name, code, transport.Port(), app.Logger)
			if err != nil {
				return err
			}
			defer advertiser.Shutdown()

			scheme := "ws"
			if tlsCert != "" && tlsKey != "" {
				scheme = "wss"
			}
			joinURL := fmt.Sprintf("%s://%s/session", scheme,
				net.JoinHostPort(localIP(), strconv.Itoa(transport.Port())))
			fmt.Printf("Room code: %s\n", code)
			fmt.Printf("Listening at %s\n", joinURL)
			if showQR {
				if qr, qrErr := qrcode.New(joinURL, qrcode.Medium); qrErr == nil {
					fmt.Println(qr.ToSmallString(false))
				}
			}

			return runHostLoop(mgr, time.Duration(pickSeconds)*time.Second,
				time.Duration(judgeSeconds)*time.Second)
		},
	}

	cmd.Flags().StringVar(&name, "name", "Player", "Your multiplayer display name")
	cmd.Flags().StringVar(&addr, "addr", ":0", "Listen address for the session transport")
	cmd.Flags().StringVar(&code, "code", "", "Room code (generated when empty)")
	cmd.Flags().BoolVar(&showQR, "qr", false, "Print a QR code of the join address")
	cmd.Flags().StringVar(&tlsCert, "tls-cert", "", "Path to TLS certificate (enables wss)")
	cmd.Flags().StringVar(&tlsKey, "tls-key", "", "Path to TLS key")
	cmd.Flags().IntVar(&pickSeconds, "pick-seconds", 60, "Category pick countdown")
	cmd.Flags().IntVar(&judgeSeconds, "judge-seconds", 30, "Judging countdown")

	return cmd
}

// runHostLoop drives the session from the judge's keyboard
func runHostLoop(mgr *session.Manager, pickWindow, judgeWindow time.Duration) error {
	go printSessionUpdates(mgr)

	fmt.Println(`Commands: pick | judge | award <name> <pts> | endround | endgame | quit`)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("host> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		s := mgr.Session()
		if s == nil {
			return model.ErrNoSession
		}

		switch fields[0] {
		case "pick":
			round := s.Round
			if s.Status == model.SessionStatusPlaying {
				round++
			}
			mgr.Send(model.StartPickingEvent(round, app.Clock.Now().Add(pickWindow)))
		case "judge":
			mgr.Send(model.StartJudgingEvent(s.Round, app.Clock.Now().Add(judgeWindow)))
		case "award":
			if len(fields) != 3 {
				fmt.Println("usage: award <name> <pts>")
				continue
			}
			pts, err := strconv.Atoi(fields[2])
			if err != nil {
				fmt.Printf("invalid points %q\n", fields[2])
				continue
			}
			target := findSessionPlayer(s, fields[1])
			if target == nil {
				fmt.Printf("no player named %q in this session\n", fields[1])
				continue
			}
			mgr.Send(model.AwardPointsEvent(map[uuid.UUID]int{target.ID: pts}))
		case "endround":
			mgr.Send(model.EndRoundEvent(s.Round))
		case "endgame":
			mgr.Send(model.EndGameEvent())
		case "quit":
			return nil
		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}
}

func newJoinCmd() *cobra.Command {
	var (
		name   string
		code   string
		secure bool
	)

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Join a nearby multiplayer lobby by room code",
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint, err := discovery.FindHost(cmd.Context(), code, app.Logger)
			if err != nil {
				return err
			}

			mgr := app.Session
			client, err := ws.Dial(endpoint.JoinURL(secure), mgr, app.Logger)
			if err != nil {
				return err
			}
			mgr.Connect(client)
			defer mgr.Stop()

			me := model.MPPlayer{ID: uuid.New(), Name: name, IsConnected: true}
			mgr.Send(model.JoinEvent(me))

			return runClientLoop(mgr, me.ID)
		},
	}

	cmd.Flags().StringVar(&name, "name", "Player", "Your multiplayer display name")
	cmd.Flags().StringVar(&code, "code", "", "Room code to join (required)")
	cmd.Flags().BoolVar(&secure, "wss", false, "Dial the host over TLS")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}

// runClientLoop lets a joined player pick categories and leave
func runClientLoop(mgr *session.Manager, myID uuid.UUID) error {
	go printSessionUpdates(mgr)

	fmt.Println(`Commands: pick <category> | leave`)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "pick "):
			mgr.Send(model.SetCategoryEvent(myID, strings.TrimSpace(strings.TrimPrefix(line, "pick"))))
		case line == "leave":
			mgr.Send(model.LeaveEvent(myID))
			return nil
		default:
			fmt.Printf("unknown command %q\n", line)
		}
	}
}

// printSessionUpdates re-renders the lobby whenever the replica changes
func printSessionUpdates(mgr *session.Manager) {
	updates := mgr.Subscribe()
	for range updates {
		s := mgr.Session()
		if s == nil {
			continue
		}
		fmt.Printf("\n[%s] round %d\n", s.Status, s.Round)
		for _, p := range s.Players {
			pick := "-"
			if p.SelectedCategory != nil {
				pick = *p.SelectedCategory
			}
			marker := " "
			if p.IsHost {
				marker = "*"
			}
			conn := ""
			if !p.IsConnected {
				conn = " (offline)"
			}
			fmt.Printf("  %s %-18s %3d  pick: %s%s\n", marker, p.Name, p.SessionScore, pick, conn)
		}
	}
}

func findSessionPlayer(s *model.Session, name string) *model.MPPlayer {
	for i := range s.Players {
		if strings.EqualFold(s.Players[i].Name, name) {
			return &s.Players[i]
		}
	}
	return nil
}

// localIP finds the LAN address peers should dial
func localIP() string {
	conn, err := net.Dial("udp", "192.168.255.255:1")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return "127.0.0.1"
}
