package main

import (
	"context"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	appanalytics "github.com/xiebiao/librarysystem/internal/application/analytics"
	"github.com/xiebiao/librarysystem/internal/application/catalog"
	applending "github.com/xiebiao/librarysystem/internal/application/lending"
	"github.com/xiebiao/librarysystem/internal/domain/analytics"
	"github.com/xiebiao/librarysystem/internal/domain/lending"
	"github.com/xiebiao/librarysystem/internal/infrastructure/config"
	"github.com/xiebiao/librarysystem/internal/infrastructure/messaging"
	"github.com/xiebiao/librarysystem/internal/infrastructure/persistence"
	"github.com/xiebiao/librarysystem/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// env 单次命令执行所需的依赖
type env struct {
	cfg     *config.Config
	log     zerolog.Logger
	stores  *persistence.Stores
	lending lending.Service
	stats   analytics.Service
	cleanup func()
}

// rootOptions 全局参数
type rootOptions struct {
	configPath string
	noSeed     bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "libctl",
		Short:        "图书借阅系统管理工具",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "配置文件路径(默认查找./config/config.yaml)")
	root.PersistentFlags().BoolVar(&opts.noSeed, "no-seed", false, "查询前不加载演示数据")

	root.AddCommand(
		newSeedCommand(opts),
		newMostBorrowedCommand(opts),
		newMostActiveCommand(opts),
		newPaceCommand(opts),
		newBorrowCommand(opts),
		newReturnCommand(opts),
		newAuditCommand(opts),
	)
	return root
}

func loadConfig(opts *rootOptions) (*config.Config, zerolog.Logger, error) {
	var paths []string
	if opts.configPath != "" {
		paths = append(paths, opts.configPath)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	// 标准输出只留给命令结果(JSON)
	logOpts := cfg.Log.Options()
	if logOpts.Output == "" || logOpts.Output == "stdout" {
		logOpts.Output = "stderr"
	}
	log, err := logger.New(logOpts)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, log, nil
}

// openEnv 按配置打开仓储并创建领域服务
// 内存驱动每次执行都是空库,除非--no-seed,否则先加载演示数据
func openEnv(ctx context.Context, opts *rootOptions) (*env, error) {
	cfg, log, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	stores, cleanup, err := persistence.NewStores(cfg, log)
	if err != nil {
		return nil, err
	}
	publisher, closePublisher, err := messaging.NewEventPublisher(cfg, log)
	if err != nil {
		cleanup()
		return nil, err
	}

	e := &env{
		cfg:    cfg,
		log:    log,
		stores: stores,
		lending: lending.NewService(stores.Ledger, stores.Books, stores.Users,
			lending.WithPublisher(publisher),
			lending.WithLogger(log),
		),
		stats: analytics.NewService(stores.Ledger, stores.Books, stores.Users, analytics.WithLogger(log)),
		cleanup: func() {
			closePublisher()
			cleanup()
		},
	}

	if !opts.noSeed && cfg.Database.SeedDemo {
		if _, err := e.seedUseCase().Execute(ctx); err != nil {
			e.cleanup()
			return nil, err
		}
	}
	return e, nil
}

func (e *env) seedUseCase() *catalog.SeedUseCase {
	return catalog.NewSeedUseCase(e.stores.Tx, e.stores.Books, e.stores.Users, e.stores.Ledger, e.log)
}

func (e *env) mostBorrowed() *appanalytics.MostBorrowedUseCase {
	return appanalytics.NewMostBorrowedUseCase(e.stats, e.cfg.Analytics.MostBorrowedTop)
}

func (e *env) borrow() *applending.BorrowBookUseCase {
	return applending.NewBorrowBookUseCase(e.lending)
}

func (e *env) giveBack() *applending.ReturnBookUseCase {
	return applending.NewReturnBookUseCase(e.lending)
}

// printJSON 输出缩进JSON
func printJSON(w io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}
