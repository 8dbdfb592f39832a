package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/powerswitch/led-commander-16-2/internal/artnet"
	"github.com/powerswitch/led-commander-16-2/internal/clientmqtt"
	"github.com/powerswitch/led-commander-16-2/internal/config"
	"github.com/powerswitch/led-commander-16-2/internal/ledfile"
	"github.com/powerswitch/led-commander-16-2/internal/logger"
	"github.com/powerswitch/led-commander-16-2/internal/preview"
	"github.com/powerswitch/led-commander-16-2/internal/report"
)

type options struct {
	configFile string
	envFile    string
	file       string
	write      bool
	out        string
	mode       string
	verbose    bool
	report     bool
	export     string
	scene      int
	step       int
	preview    bool
}

var opts options

func init() {
	flag.StringVar(&opts.configFile, "config", "configs/conf.toml", "Path to configuration file")
	flag.StringVar(&opts.envFile, "env", ".env", "Path to an optional .env file with LEDCMD_* overrides")
	flag.StringVar(&opts.file, "file", "", "Path to the LED commander configuration image")
	flag.BoolVar(&opts.write, "write", false, "Re-encode the image after loading it")
	flag.StringVar(&opts.out, "out", "", "Where -write stores the image (default: -file)")
	flag.StringVar(&opts.mode, "mode", "", "Codec mode: faithful or canonical (default from config)")
	flag.BoolVar(&opts.verbose, "v", false, "Debug logging")
	flag.BoolVar(&opts.report, "report", false, "Print the decoded configuration to stdout")
	flag.StringVar(&opts.export, "export", "", "Write the report to this file instead of stdout")
	flag.IntVar(&opts.scene, "scene", 0, "Static scene to preview (1-16)")
	flag.IntVar(&opts.step, "step", 0, "Chase step to preview (1-2000)")
	flag.BoolVar(&opts.preview, "preview", false, "Send the selected scene over Art-Net and/or MQTT until interrupted")
}

func main() {
	flag.Parse()
	if opts.file == "" {
		fmt.Fprintln(os.Stderr, "usage: ledcommander -file <image> [options]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := config.LoadDotEnv(opts.envFile); err != nil {
		fmt.Printf("env file read error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.NewConfig(opts.configFile)
	if err != nil {
		fmt.Printf("configuration file read error: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg, opts)

	log, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		fmt.Printf("failed to create a logger: %v\n", err)
		os.Exit(1)
	}
	if opts.verbose {
		if err := log.SetLevel("debug"); err != nil {
			fmt.Printf("failed to set log level: %v\n", err)
			os.Exit(1)
		}
	}
	log.With(logger.Fields{"module": "logger"}).Debug("newLogger created ok")

	if err := run(log, cfg, opts); err != nil {
		log.With(logger.Fields{"module": "main"}).Error(err)
		os.Exit(1)
	}
}

// applyFlags lets command line flags win over the file and the environment.
// -v is applied to the logger itself once it exists.
func applyFlags(cfg *config.Config, o options) {
	if o.mode != "" {
		cfg.Codec.Mode = o.mode
	}
}

func run(log *logger.Log, cfg *config.Config, o options) error {
	mode, err := ledfile.ParseMode(cfg.Codec.Mode)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(cfg.Report.Format)
	if err != nil {
		return err
	}
	sel, err := selectScene(o)
	if err != nil {
		return err
	}

	codec := ledfile.NewCodec(log, mode)
	f, err := codec.Load(o.file)
	if err != nil {
		return err
	}
	log.With(logger.Fields{"module": "ledfile"}).Infof("loaded %s", o.file)

	if o.report || o.export != "" {
		if err := writeReport(f, format, o.export); err != nil {
			return err
		}
	}

	if o.write {
		out := o.out
		if out == "" {
			out = o.file
		}
		if err := codec.Save(out, f); err != nil {
			return err
		}
	}

	if o.preview {
		return runPreview(log, cfg, f, sel)
	}
	return nil
}

func selectScene(o options) (preview.Selector, error) {
	switch {
	case o.scene != 0 && o.step != 0:
		return preview.Selector{}, errors.New("-scene and -step are mutually exclusive")
	case o.scene != 0:
		return preview.Static(o.scene), nil
	case o.step != 0:
		return preview.Step(o.step), nil
	case o.preview:
		return preview.Selector{}, errors.New("-preview needs -scene or -step")
	}
	return preview.Static(1), nil
}

func writeReport(f *ledfile.File, format report.Format, path string) (err error) {
	if path == "" {
		return report.Write(os.Stdout, f, format)
	}
	fd, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer func() {
		if cerr := fd.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("export: %w", cerr)
		}
	}()
	return report.Write(fd, f, format)
}

func runPreview(log *logger.Log, cfg *config.Config, f *ledfile.File, sel preview.Selector) error {
	if !cfg.ArtNet.Enabled && !cfg.MQTT.Enabled {
		return errors.New("preview: neither Art-Net nor MQTT is enabled")
	}
	frame, err := preview.Render(f, sel)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	var stops []func()
	defer func() {
		for i := len(stops) - 1; i >= 0; i-- {
			stops[i]()
		}
	}()

	if cfg.ArtNet.Enabled {
		a, err := artnet.NewController(log, ConvertConfigArtNet(cfg.ArtNet))
		if err != nil {
			return fmt.Errorf("error while creating a new controller art-net: %w", err)
		}
		frames := make(chan preview.Frame, 1)
		if err := a.Start(ctx, frames); err != nil {
			return fmt.Errorf("failed to start art-net service: %w", err)
		}
		stops = append(stops, a.Stop)
		frames <- frame
	}

	if cfg.MQTT.Enabled {
		client := clientmqtt.NewClient(log, ConvertConfigClientMQTT(cfg.MQTT))
		if err := client.Start(ctx); err != nil {
			return fmt.Errorf("failed to start MQTT service: %w", err)
		}
		stops = append(stops, func() {
			if err := client.Stop(); err != nil {
				log.Error("failed to stop MQTT service:", err.Error())
			}
		})
		frames := make(chan preview.Frame, 1)
		frames <- frame
		close(frames)
		go client.Run(ctx, frames)
	}

	log.With(logger.Fields{"module": "main"}).Infof("previewing %s, press Ctrl+C to stop", frame.Label)
	<-ctx.Done()
	log.Info("shutdown complete")
	return nil
}

// ConvertConfigClientMQTT преобразует структуры.
func ConvertConfigClientMQTT(cfg config.MQTTConf) clientmqtt.MQTTConf {
	return clientmqtt.MQTTConf{
		ClientID: cfg.ClientID,
		Schema:   "tcp",
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		Qos:      cfg.Qos,
		Topic:    cfg.Topic,
	}
}

// ConvertConfigArtNet преобразует структуры.
func ConvertConfigArtNet(cfg config.ArtNetConf) artnet.ArtNetConf {
	return artnet.ArtNetConf{
		CIDR:     cfg.CIDR,
		Universe: cfg.Universe,
		Interval: time.Duration(cfg.IntervalMs) * time.Millisecond,
	}
}
