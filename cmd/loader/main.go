package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"gotigergraph/internal/app"
	"gotigergraph/internal/tigergraph"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)

	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	conn, err := tigergraph.NewConnection(tigergraph.Config{
		Host:       cfg.TigerGraph.Host,
		Graph:      cfg.TigerGraph.Graph,
		Username:   cfg.TigerGraph.Username,
		Password:   cfg.TigerGraph.Password,
		APIToken:   cfg.TigerGraph.APIToken,
		RestPPPort: cfg.TigerGraph.RestPPPort,
		GSPort:     cfg.TigerGraph.GSPort,
		Timeout:    time.Duration(cfg.TigerGraph.TimeoutSecond) * time.Second,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "构建连接失败: %v\n", err)
		os.Exit(1)
	}

	svc, err := app.NewService(ctx, cfg, conn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "构建服务失败: %v\n", err)
		os.Exit(1)
	}
	defer svc.Close(ctx)

	switch cmd {
	case "run":
		err = svc.RunAll(ctx)
	case "run-job":
		if flag.NArg() < 2 {
			usage()
			os.Exit(1)
		}
		err = svc.RunJob(ctx, flag.Arg(1))
	case "token":
		err = svc.EnsureToken(ctx)
		if err == nil {
			has, exp := svc.TokenStatus()
			if has {
				fmt.Printf("token 已持有,过期时间: %s\n", exp.Format(time.RFC3339))
			} else {
				fmt.Println("未持有 token")
			}
		}
	case "version":
		var ver string
		ver, err = conn.Ver(ctx, "product")
		if err == nil {
			fmt.Println(ver)
		}
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s 执行失败: %v\n", cmd, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("用法: loader [-config configs/config.yaml] {run|run-job <name>|token|version}")
}
