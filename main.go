// @title 爬虫逆向学习平台 API
// @version 1.0
// @description 爬虫与逆向工程练习平台的后端服务器。
// @termsOfService http://swagger.io/terms/

// @contact.name API支持

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"spider_edu_backend/internal/app"
	"spider_edu_backend/internal/config"
	"spider_edu_backend/pkg/configwatcher"
	"spider_edu_backend/pkg/logger"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 设置迁移标志
	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		log.Println("数据库迁移完成，退出程序")
		return
	}

	// 配置热更新
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(raw interface{}) {
		if newCfg, ok := raw.(*config.Config); ok {
			application.ReloadConfig(newCfg)
		}
	})

	application.Run()
}
