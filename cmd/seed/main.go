package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/adapter"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/availability"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/config"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/dispatch"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/domain"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/handler"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/repository"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/seed"
)

func main() {
	var op int
	var n int
	var tenantID int64
	var date string
	var file string
	var role string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机空闲时间, 2: 导入表格, 3: 签发令牌)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Int64Var(&tenantID, "tenant", 0, "租户 ID")
	flag.StringVar(&date, "date", "", "随机空闲时间所在日历区间的日期 (YYYY-MM-DD)，默认为今天")
	flag.StringVar(&file, "file", "", "要导入的表格文件")
	flag.StringVar(&role, "role", string(domain.RoleManager), "签发令牌的角色")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// seed 不使用缓存
	repo := repository.NewRepository(cfg, &http.Client{Timeout: cfg.RequestTimeout()}, nil)
	svc := availability.NewService(repo, adapter.New(cfg.Location()))
	seeder := seed.NewSeeder(repo, svc, dispatch.NewDispatcher(repo), cfg.Seed.RatePerSecond)

	ctx := context.Background()

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 || tenantID <= 0 {
			slog.Error("请输入合法的租户和记录数量")
			return
		}

		anchor := time.Now().In(cfg.Location())
		if date != "" {
			anchor, err = time.ParseInLocation("2006-01-02", date, cfg.Location())
			if err != nil {
				slog.Error("日期格式错误", slog.String("error", err.Error()))
				return
			}
		}

		cnt, err := seeder.SeedRandomAvailabilities(ctx, tenantID, anchor, cfg.WeekStart(), n)
		if err != nil {
			slog.Error("无法插入随机空闲时间", slog.String("error", err.Error()))
			return
		}
		slog.Info("插入空闲时间成功", slog.Int("count", cnt))
	case 2:
		if file == "" || tenantID <= 0 {
			slog.Error("请指定租户和表格文件")
			return
		}

		result, err := seeder.ImportWorkbook(ctx, tenantID, file)
		if err != nil {
			slog.Error("导入表格失败", slog.String("error", err.Error()))
			return
		}
		for _, failure := range result.Failures {
			slog.Warn("导入失败的行", slog.Int("row", failure.Row), slog.String("error", failure.Err))
		}
		slog.Info("导入表格完成", slog.Int("imported", result.Imported), slog.Int("failed", len(result.Failures)))
	case 3:
		token, err := handler.IssueToken(cfg.JWT.Secret, "seed", tenantID, domain.Role(role), 24*time.Hour)
		if err != nil {
			slog.Error("无法签发令牌", slog.String("error", err.Error()))
			return
		}
		fmt.Println(token)
	default:
		slog.Error("未知的操作", slog.Int("op", op))
	}
}
