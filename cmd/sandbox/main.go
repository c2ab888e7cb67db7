package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/annel0/blockplay/internal/config"
	"github.com/annel0/blockplay/internal/eventbus"
	"github.com/annel0/blockplay/internal/game"
	"github.com/annel0/blockplay/internal/logging"
	"github.com/annel0/blockplay/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run возвращает код выхода; отложенные закрытия логов и ресурсов выполняются на любом пути
func run(args []string) int {
	flags := flag.NewFlagSet("sandbox", flag.ContinueOnError)
	configPath := flags.String("config", "", "путь к YAML-конфигурации (по умолчанию $GAME_CONFIG)")
	scriptPath := flags.String("script", "", "файл команд, по одной в строке ('-' для stdin)")
	frames := flags.Uint64("frames", 0, "остановиться после N кадров (0 - без ограничения)")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("❌ Ошибка загрузки конфигурации: %v", err)
		return 1
	}

	consoleLevel, err := logging.ParseLevel(cfg.Logging.ConsoleLevel)
	if err != nil {
		log.Printf("❌ logging.console_level: %v", err)
		return 1
	}
	fileLevel, err := logging.ParseLevel(cfg.Logging.FileLevel)
	if err != nil {
		log.Printf("❌ logging.file_level: %v", err)
		return 1
	}
	logging.Configure(cfg.Logging.Dir, consoleLevel, fileLevel)
	for component, name := range cfg.Logging.Components {
		level, err := logging.ParseLevel(name)
		if err != nil {
			log.Printf("❌ logging.components.%s: %v", component, err)
			return 1
		}
		logging.GetLoggerManager().SetLogLevel(component, level, fileLevel)
	}
	if err := logging.InitDefaultLogger("sandbox"); err != nil {
		log.Printf("❌ Ошибка инициализации логирования: %v", err)
		return 1
	}
	defer logging.CloseDefaultLogger()
	defer func() {
		if err := logging.GetLoggerManager().CloseAll(); err != nil {
			log.Printf("Ошибка закрытия логов: %v", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	res, err := game.Bootstrap(cfg, registry)
	if err != nil {
		logging.Error("❌ Не удалось подготовить игру: %v", err)
		return 1
	}
	defer func() {
		if err := res.Close(); err != nil {
			logging.Error("Ошибка освобождения ресурсов: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := eventbus.StartLoggingListener(ctx, res.Bus, logging.GetComponentLogger(logging.ComponentEvents), eventbus.Filter{}); err != nil {
		logging.Warn("Журнал событий недоступен: %v", err)
	}
	res.Exporter.Start(time.Second)
	defer res.Exporter.Stop()

	if addr := cfg.Metrics.GetAddr(); addr != "" {
		srv, err := serveMetrics(addr, registry)
		if err != nil {
			logging.Warn("Метрики по HTTP недоступны: %v", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()
		}
	}

	commands, err := openScript(ctx, *scriptPath)
	if err != nil {
		logging.Error("❌ %v", err)
		return 1
	}

	opts := []game.LoopOption{
		game.WithFPS(cfg.Loop.GetFPS()),
		game.WithMaxFrames(*frames),
		game.WithRenderer(logFrame(cfg.Loop.GetFPS())),
	}
	if cfg.Loop.StopOnOutcome {
		opts = append(opts, game.StopOnOutcome())
	}
	if cfg.Loop.StatsEvery > 0 {
		if stats, err := game.NewProcessStats(); err != nil {
			logging.Warn("Статистика процесса недоступна: %v", err)
		} else {
			opts = append(opts, game.WithProcessStats(stats, time.Duration(cfg.Loop.StatsEvery)*time.Second))
		}
	}

	logging.Info("🎮 Песочница запущена: мир %s, уровень %q", cfg.World.LandPath, res.Session.Level().Name)
	err = game.NewLoop(res.Session, opts...).Run(ctx, commands)
	code := 0
	switch {
	case errors.Is(err, context.Canceled):
		logging.Info("📡 Получен сигнал завершения")
	case err != nil:
		logging.Error("Игровой цикл завершился с ошибкой: %v", err)
		code = 1
	}
	logging.Info("Итог: кадров %d, уровень %s", res.Session.FrameNumber(), res.Session.Outcome())
	return code
}

func serveMetrics(addr string, reg *prometheus.Registry) (*http.Server, error) {
	mw, err := middleware.NewPrometheusMiddleware("sandbox", reg)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mw.RegisterMetricsEndpoint(mux, reg)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logging.Info("📊 Метрики: http://%s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Ошибка HTTP-сервера метрик: %v", err)
		}
	}()
	return srv, nil
}

// openScript читает команды из файла или stdin в канал. Пустой путь - без команд.
func openScript(ctx context.Context, path string) (<-chan game.Command, error) {
	var r io.ReadCloser
	switch path {
	case "":
		return nil, nil
	case "-":
		r = io.NopCloser(os.Stdin)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("не удалось открыть сценарий: %w", err)
		}
		r = f
	}

	commands := make(chan game.Command)
	go func() {
		defer close(commands)
		defer r.Close()
		readCommands(ctx, r, commands)
	}()
	return commands, nil
}

// readCommands пропускает пустые строки и комментарии '#'
func readCommands(ctx context.Context, r io.Reader, out chan<- game.Command) {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		cmd, err := game.ParseCommand(text)
		if err != nil {
			logging.Warn("Сценарий, строка %d: %v", line, err)
			continue
		}
		select {
		case out <- cmd:
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		logging.Warn("Ошибка чтения сценария: %v", err)
	}
}

// logFrame пишет краткий снимок раз в секунду игрового времени
func logFrame(fps int) game.Renderer {
	if fps <= 0 {
		fps = game.DefaultFPS
	}
	return func(f game.Frame) {
		if f.Number%uint64(fps) != 0 {
			return
		}
		player := "-"
		if f.Player != nil {
			player = fmt.Sprintf("%s@%d°", f.Player.Pos, f.Player.Heading)
		}
		logging.Debug("Кадр %d: персонажей %d, блоков %d, игрок %s, уровень %s",
			f.Number, len(f.Actors), len(f.Blocks), player, f.Outcome)
	}
}
