package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/alxayo/gelflb/internal/balancer"
	"github.com/alxayo/gelflb/internal/config"
	"github.com/alxayo/gelflb/internal/logger"
	"github.com/alxayo/gelflb/internal/rawsock"
	"github.com/alxayo/gelflb/internal/rawsock/packet"
	"github.com/alxayo/gelflb/internal/reassembly"
	"github.com/alxayo/gelflb/internal/receiver"
	"github.com/alxayo/gelflb/internal/statusapi"
	"github.com/alxayo/gelflb/internal/supervisor"
)

// inboundQueueSize is the bound on the receiver-to-dispatcher channel; the
// documented minimum is 1024.
const inboundQueueSize = 1024

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if cfg.showHelp {
		printUsage()
		return
	}
	if cfg.showVersion {
		fmt.Println(version)
		return
	}

	logger.Init()
	log := logger.Logger().With("component", "cli")
	log.Info("gelflb starting", "version", version)

	fileCfg, err := config.Load(cfg.configPath)
	if err != nil {
		log.Error("failed to load configuration", "path", cfg.configPath, "error", err)
		os.Exit(1)
	}
	if err := logger.SetLevel(fileCfg.LogLevel); err != nil {
		log.Warn("invalid log_level in configuration, keeping current level", "value", fileCfg.LogLevel)
	}

	if fileCfg.Transparent && runtime.GOOS == "windows" && !cfg.assumeWindowsServer {
		log.Error("transparent mode requires a Windows Server edition; pass -assume-windows-server to override")
		os.Exit(1)
	}
	if err := fileCfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	listenAddr, err := fileCfg.ListenAddr()
	if err != nil {
		log.Error("failed to resolve listen address", "error", err)
		os.Exit(1)
	}
	backends, err := fileCfg.BackendAddrs()
	if err != nil {
		log.Error("failed to resolve backend addresses", "error", err)
		os.Exit(1)
	}

	counters := &balancer.Counters{}
	var table *reassembly.Table

	mutation := balancer.MutationConfig{
		AttachSourceInfo: fileCfg.AttachSourceInfo,
		StripFields:      fileCfg.StripFields,
		BlankFields:      fileCfg.BlankFields,
		Transparent:      fileCfg.Transparent,
		UseGzip:          fileCfg.UseGzip,
		ChunkSize:        int(fileCfg.ChunkSize),
	}
	if mutation.Required() {
		table = reassembly.New()
	}

	plainSender, err := rawsock.NewPlainSender(udpNetworkFor(listenAddr))
	if err != nil {
		log.Error("failed to bind outbound socket", "error", err)
		os.Exit(1)
	}
	defer plainSender.Close()

	dispatcher := balancer.NewDispatcher(&balancer.Dispatcher{
		Backends:      backends,
		Mutation:      mutation,
		Table:         table,
		Counters:      counters,
		PacketBuilder: packet.Builder{},
		RawSender:     rawsock.PosixSender{},
		PlainSender:   plainSender,
		Log:           log,
	})

	queue := make(chan balancer.Wrapper, inboundQueueSize)
	go dispatcher.Run(queue)

	recv, err := receiver.New(listenAddr, fileCfg.AllowedSourceIPs, queue, counters)
	if err != nil {
		log.Error("failed to bind listener", "error", err)
		os.Exit(1)
	}
	defer recv.Close()
	go recv.Run()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go supervisor.RunEviction(ctx, table)
	go supervisor.RunReporting(ctx, counters)

	if fileCfg.WebUIPort != nil {
		statusSrv := &statusapi.Server{Counters: counters, Config: fileCfg}
		addr := fmt.Sprintf("0.0.0.0:%d", *fileCfg.WebUIPort)
		go func() {
			if err := http.ListenAndServe(addr, statusSrv.Handler()); err != nil {
				log.Error("status endpoint stopped", "error", err)
			}
		}()
		log.Info("status endpoint listening", "addr", addr)
	}

	log.Info("gelflb ready", "listen", listenAddr.String(), "backends", len(backends), "transparent", fileCfg.Transparent)

	<-ctx.Done()
	log.Info("shutdown signal received, terminating")
}

// udpNetworkFor picks the socket family matching the listener. A bracketed
// address ("[::1]:1234") is IPv6; Validate already rejects a family mismatch
// between the listener and any backend in transparent mode. Only one plain
// sender is bound, in the listener's family, so in non-transparent mode a
// backend of the other family cannot be reached through it.
func udpNetworkFor(addr interface{ String() string }) string {
	s := addr.String()
	if len(s) > 0 && s[0] == '[' {
		return "udp6"
	}
	return "udp4"
}
