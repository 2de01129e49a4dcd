// 命令行入口：
// - 解析全局 flags 与 settings.yaml/rules.yaml
// - 初始化日志
// - 子命令：validate / export / posts / work / import
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"go-portfolio/internal/config"
	"go-portfolio/internal/content"
	"go-portfolio/internal/logx"
	"go-portfolio/internal/schema"
)

var (
	configPath string
	rulesPath  string
	contentDir string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "portfolio",
	Short:         "Portfolio content toolkit: validate, query and export work items and posts",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "settings.yaml", "path to settings.yaml")
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "rules.yaml", "path to rules.yaml (optional)")
	rootCmd.PersistentFlags().StringVar(&contentDir, "content", "", "content directory (overrides CONTENT_DIR)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// initConfig 加载配置；settings.yaml 不存在时使用默认配置。
func initConfig() error {
	c, err := config.Load(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		c = config.Default()
	case err != nil:
		return err
	}
	if contentDir != "" {
		c.ContentDir = contentDir
	}
	logx.Init(c.LogLevel, c.LogFormat, c.LogLocale, c.LogColor)
	if err != nil {
		logx.Debugf("未找到 %s，使用默认配置", configPath)
	}
	cfg = c
	return nil
}

func schemaDefaults() schema.Defaults {
	return schema.Defaults{Author: cfg.Site.Author, Social: cfg.SocialDefaults()}
}

// loadContent 从 CONTENT_DIR 加载并校验全部内容。
func loadContent(ctx context.Context) (*content.Collection, error) {
	loader := content.NewFSLoader(os.DirFS(cfg.ContentDir))
	return content.Load(ctx, loader, schemaDefaults())
}
