package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/bsg_viewer/bsg"
	"github.com/mogaika/bsg_viewer/config"
	"github.com/mogaika/bsg_viewer/uibackend"
	"github.com/mogaika/bsg_viewer/viewer"
	"github.com/mogaika/bsg_viewer/vr"
	"github.com/mogaika/bsg_viewer/web"
)

func init() {
	// glfw and OpenGL calls must stay on the main thread
	runtime.LockOSThread()
}

func dumpScene(scene *bsg.Scene, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Cannot create %q", path)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".glb":
		err = bsg.WriteGLB(f, scene.Root())
	case ".fbx":
		err = bsg.WriteFBX(f, scene.Root(), filepath.Base(path))
	default:
		return errors.Errorf("Unknown dump format %q, use .glb or .fbx", path)
	}
	if err != nil {
		return errors.Wrapf(err, "Dump %q", path)
	}
	log.Printf("Scene dumped to %q", path)
	return nil
}

func main() {
	log.Printf("Invoked with %d arguments: %q", len(os.Args), os.Args)

	var addr, dump string
	var verbose bool
	flag.StringVar(&addr, "i", "", "Address of server, overrides web.addr of config")
	flag.StringVar(&dump, "dump", "", "Write the scene to .glb or .fbx file on exit")
	flag.BoolVar(&verbose, "v", false, "Log input events")
	flag.Parse()

	if flag.NArg() < 1 {
		flag.PrintDefaults()
		log.Fatal("Need a config file.\nTry 'bsg_viewer config/desktop.yaml'")
	}

	cfg, err := config.Load(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	if addr != "" {
		cfg.Web.Addr = addr
	}

	display, err := uibackend.NewGLFW(cfg.Window, cfg.KeyMap)
	if err != nil {
		log.Fatal(err)
	}
	defer display.Destroy()

	dev, err := uibackend.NewOpenGL4(cfg.ClearColor, cfg.LineWidth)
	if err != nil {
		log.Fatal(err)
	}
	defer dev.Destroy()
	display.OnFramebufferResize(dev.Viewport)

	host := vr.NewHost(display, cfg.Camera)
	app := viewer.NewViewer(cfg, dev, host)
	app.Verbose = verbose

	if cfg.Web.Addr != "" {
		server := web.NewServer(host, app)
		go func() {
			if err := server.ListenAndServe(cfg.Web.Addr); err != nil {
				log.Printf("[web] Server stopped: %v", err)
			}
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	runErr := host.Run(ctx, app)

	if dump != "" && app.Scene() != nil {
		if err := dumpScene(app.Scene(), dump); err != nil {
			log.Printf("Failed to dump scene: %v", err)
		}
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Printf("Viewer stopped: %v", runErr)
		cancel()
		dev.Destroy()
		display.Destroy()
		os.Exit(1)
	}
}
