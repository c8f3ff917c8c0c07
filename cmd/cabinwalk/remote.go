package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/teslashibe/go-cabinwalk/internal/config"
	"github.com/teslashibe/go-cabinwalk/internal/httpc"
	"github.com/teslashibe/go-cabinwalk/pkg/cabin"
	"github.com/teslashibe/go-cabinwalk/pkg/session"
)

func newStatusCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the camera status of a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var st session.Status
			if err := httpc.GetJSON(cmd.Context(), config.BaseURL(g.addr)+"/api/status", &st); err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), st)
			return nil
		},
	}
}

func newMoveCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "move <position>",
		Short: "Ask a running server to move the camera",
		Long: `Move to driver, passenger, standing, sofa_sit1, sofa_lie or sofa_sit2.
Two more verbs are accepted: "cycle" steps through the enabled sofa spots,
and "walk"/"stop" press and release the walk key.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := config.BaseURL(g.addr) + "/api"

			var (
				url  string
				body any
			)
			switch strings.ToLower(args[0]) {
			case "cycle":
				url = base + "/cycle-sofa"
			case "walk", "stop":
				url = base + "/walk"
				body = map[string]bool{"walk": args[0] == "walk"}
			default:
				p, err := cabin.ParsePosition(args[0])
				if err != nil {
					return err
				}
				url = base + "/move/" + p.String()
			}

			var out struct {
				Status session.Status `json:"status"`
			}
			if err := httpc.SendJSON(cmd.Context(), http.MethodPost, url, body, &out); err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), out.Status)
			return nil
		},
	}
}

func newWatchCmd(g *globalFlags) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream status changes from a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			url := config.WebsocketURL(g.addr, "/ws/status")
			ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
			if err != nil {
				return fmt.Errorf("dial %s: %w", url, err)
			}
			defer ws.Close()

			go func() {
				<-ctx.Done()
				ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				ws.Close()
			}()

			w := cmd.OutOrStdout()
			for {
				_, data, err := ws.ReadMessage()
				if err != nil {
					if ctx.Err() != nil {
						return nil
					}
					return err
				}
				if raw {
					fmt.Fprintln(w, string(data))
					continue
				}
				var st session.Status
				if err := json.Unmarshal(data, &st); err != nil {
					return fmt.Errorf("decode status: %w", err)
				}
				printStatus(w, st)
			}
		},
	}

	cmd.Flags().BoolVar(&raw, "json", false, "print raw JSON")
	return cmd
}

func printStatus(w io.Writer, st session.Status) {
	line := fmt.Sprintf("%-10s stance=%s", st.Position, st.Stance)
	if st.Animating {
		line += fmt.Sprintf(" -> %s %3.0f%%", st.Target, st.Progress*100)
	}
	if len(st.Pending) > 0 {
		line += fmt.Sprintf(" then %v", st.Pending)
	}
	if st.Walking {
		line += " walking"
	}
	if st.Warning {
		line += " [stop the truck first]"
	}
	fmt.Fprintln(w, line)
}
