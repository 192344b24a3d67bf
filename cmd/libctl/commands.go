package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	appanalytics "github.com/xiebiao/librarysystem/internal/application/analytics"
	applending "github.com/xiebiao/librarysystem/internal/application/lending"
	"github.com/xiebiao/librarysystem/internal/infrastructure/messaging"
)

// withEnv 打开依赖、执行fn、关闭连接
func withEnv(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, e *env) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	e, err := openEnv(ctx, opts)
	if err != nil {
		return err
	}
	defer e.cleanup()
	return fn(ctx, e)
}

func newSeedCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "加载演示数据(3本书、3个用户、3条借阅),已存在的行跳过",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seedOpts := *opts
			seedOpts.noSeed = true
			return withEnv(cmd, &seedOpts, func(ctx context.Context, e *env) error {
				result, err := e.seedUseCase().Execute(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	}
}

func newMostBorrowedCommand(opts *rootOptions) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "most-borrowed",
		Short: "借阅次数最多的图书",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, e *env) error {
				books, err := e.mostBorrowed().Execute(ctx, top)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), books)
			})
		},
	}
	cmd.Flags().IntVar(&top, "top", 0, "返回数量(默认取analytics.most_borrowed_top)")
	return cmd
}

func newMostActiveCommand(opts *rootOptions) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "most-active",
		Short: "时间范围内借阅最多的用户",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, e *env) error {
				users, err := appanalytics.NewMostActiveUsersUseCase(e.stats).Execute(ctx, from, to)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), users)
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "开始时间(如2025-01-01)")
	cmd.Flags().StringVar(&to, "to", "", "结束时间(如2025-01-31)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newPaceCommand(opts *rootOptions) *cobra.Command {
	var userID, bookID int64
	cmd := &cobra.Command{
		Use:   "pace",
		Short: "估算用户读完一本书需要的小时数",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, e *env) error {
				result, err := appanalytics.NewReadingPaceUseCase(e.stats).Execute(ctx, userID, bookID)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "用户ID")
	cmd.Flags().Int64Var(&bookID, "book", 0, "图书ID")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("book")
	return cmd
}

func newBorrowCommand(opts *rootOptions) *cobra.Command {
	var userID, bookID int64
	cmd := &cobra.Command{
		Use:   "borrow",
		Short: "借书",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, e *env) error {
				rec, err := e.borrow().Execute(ctx, applending.BorrowBookRequest{UserID: userID, BookID: bookID})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), rec)
			})
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "用户ID")
	cmd.Flags().Int64Var(&bookID, "book", 0, "图书ID")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("book")
	return cmd
}

func newReturnCommand(opts *rootOptions) *cobra.Command {
	var lendingID int64
	cmd := &cobra.Command{
		Use:   "return",
		Short: "还书(重复归还视为成功)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, e *env) error {
				if err := e.giveBack().Execute(ctx, lendingID); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{"lending_id": lendingID, "returned": true})
			})
		},
	}
	cmd.Flags().Int64Var(&lendingID, "lending", 0, "借阅记录ID")
	_ = cmd.MarkFlagRequired("lending")
	return cmd
}

func newAuditCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "消费RabbitMQ中的借阅事件并写审计日志,Ctrl+C退出",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(opts)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Info().Str("queue", cfg.RabbitMQ.Queue).Msg("审计消费者启动")
			if err := messaging.RunAudit(ctx, cfg, log); err != nil {
				return fmt.Errorf("审计消费失败: %w", err)
			}
			return nil
		},
	}
}
