package main

import (
	"bufio"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"req-entities/internal/domain"
)

const (
	colorGreen  = "\033[32m"
	colorCyan   = "\033[36m"
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

var (
	serverURL string
	timeout   time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "req-client",
	Short: "Cliente del servicio de extraccion de entidades de requerimientos",
}

var textCmd = &cobra.Command{
	Use:   "text <requerimiento>",
	Short: "Envia un requerimiento en texto",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runText,
}

var audioCmd = &cobra.Command{
	Use:   "audio <archivo>",
	Short: "Envia un archivo de audio para transcribir y analizar",
	Args:  cobra.ExactArgs(1),
	RunE:  runAudio,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Consulta el health-check del servidor",
	RunE:  runHealth,
}

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Sesion interactiva: un requerimiento por linea",
	RunE:  runInteractive,
}

func init() {
	_ = godotenv.Load()
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("REQ_SERVER_URL", "http://localhost:8000"), "URL base del servidor")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 6*time.Minute, "tiempo maximo de espera por respuesta")
	rootCmd.AddCommand(textCmd, audioCmd, healthCmd, interactiveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runText(cmd *cobra.Command, args []string) error {
	conn, err := dial()
	if err != nil {
		return err
	}
	defer conn.Close()

	text := strings.Join(args, " ")
	resp, err := roundTrip(conn, domain.InboundEnvelope{Type: domain.MessageTypeText, Content: text})
	if err != nil {
		return err
	}
	printResponse(cmd.OutOrStdout(), resp)
	return nil
}

func runAudio(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("leer audio: %w", err)
	}

	conn, err := dial()
	if err != nil {
		return err
	}
	defer conn.Close()

	env := domain.InboundEnvelope{
		Type:    domain.MessageTypeAudio,
		Content: base64.StdEncoding.EncodeToString(data),
		Format:  strings.TrimPrefix(filepath.Ext(path), "."),
	}
	resp, err := roundTrip(conn, env)
	if err != nil {
		return err
	}
	printResponse(cmd.OutOrStdout(), resp)
	return nil
}

func runHealth(cmd *cobra.Command, _ []string) error {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(strings.TrimRight(serverURL, "/") + "/health")
	if err != nil {
		return fmt.Errorf("health-check: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("leer respuesta: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s[%d]%s %s\n", colorCyan, resp.StatusCode, colorReset, strings.TrimSpace(string(body)))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("servidor no disponible: status=%d", resp.StatusCode)
	}
	return nil
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	conn, err := dial()
	if err != nil {
		return err
	}
	defer conn.Close()

	out := cmd.OutOrStdout()
	reader := bufio.NewReader(cmd.InOrStdin())
	fmt.Fprintln(out, "Escribe un requerimiento por linea (/exit para salir).")
	for {
		fmt.Fprint(out, "> ")
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" && line != "/exit" {
			resp, rtErr := roundTrip(conn, domain.InboundEnvelope{Type: domain.MessageTypeText, Content: line})
			if rtErr != nil {
				return rtErr
			}
			printResponse(out, resp)
		}
		if line == "/exit" || err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("leer stdin: %w", err)
		}
	}
}

func dial() (*websocket.Conn, error) {
	wsURL, err := websocketURL(serverURL)
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("conectar a %s: %w", wsURL, err)
	}
	return conn, nil
}

func websocketURL(base string) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return "", fmt.Errorf("url invalida: %w", err)
	}
	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	return u.String(), nil
}

func roundTrip(conn *websocket.Conn, env domain.InboundEnvelope) (domain.OutboundMessage, error) {
	if err := conn.WriteJSON(env); err != nil {
		return domain.OutboundMessage{}, fmt.Errorf("enviar: %w", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	var resp domain.OutboundMessage
	if err := conn.ReadJSON(&resp); err != nil {
		return domain.OutboundMessage{}, fmt.Errorf("recibir: %w", err)
	}
	return resp, nil
}

func printResponse(w io.Writer, resp domain.OutboundMessage) {
	if resp.Type == domain.ResponseTypeError {
		fmt.Fprintf(w, "%s[error]%s %s\n", colorYellow, colorReset, resp.Message)
		return
	}
	fmt.Fprintf(w, "%s[%s]%s %s\n", colorCyan, resp.Type, colorReset, resp.Text)
	if resp.Entities == nil {
		return
	}
	pretty, _ := json.MarshalIndent(resp.Entities, "", "  ")
	fmt.Fprintf(w, "%s%s%s\n", colorGreen, pretty, colorReset)
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
