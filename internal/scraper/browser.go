package scraper

import (
	"context"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// fetchRenderedHTML 为一次抓取启动独立的浏览器会话：导航、等待内容选择器、
// 取回渲染后的完整 HTML。所有 cancel 都走 defer，任何退出路径上会话必然被释放。
func fetchRenderedHTML(ctx context.Context, cfg SiteConfig) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.UserAgent(browserUserAgent),
		chromedp.WindowSize(1920, 1080),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, cfg.Timeout)
	defer cancelRun()

	actions := make([]chromedp.Action, 0, 6)
	if cfg.Stealth {
		actions = append(actions, injectStealthScript())
	}
	actions = append(actions, chromedp.Navigate(cfg.URL))
	if cfg.ExtraWait > 0 {
		actions = append(actions, chromedp.Sleep(cfg.ExtraWait))
	}
	if cfg.WaitSelector != "" {
		actions = append(actions, chromedp.WaitVisible(cfg.WaitSelector, chromedp.ByQuery))
	}

	var html string
	actions = append(actions, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(runCtx, actions...); err != nil {
		return "", err
	}
	return html, nil
}

// injectStealthScript 在每个新文档执行前注入反检测脚本：
// 覆盖 webdriver 标记、伪造插件与语言列表、给 Canvas 指纹加噪声。
func injectStealthScript() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(stealthJS).Do(ctx)
		return err
	})
}

const stealthJS = `
Object.defineProperty(navigator, 'webdriver', { get: () => false });
Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en', 'zh-CN'] });
Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });

const originalQuery = window.navigator.permissions.query;
window.navigator.permissions.query = (parameters) => (
  parameters.name === 'notifications' ?
    Promise.resolve({ state: Notification.permission }) :
    originalQuery(parameters)
);

const originalGetImageData = CanvasRenderingContext2D.prototype.getImageData;
CanvasRenderingContext2D.prototype.getImageData = function (x, y, w, h) {
  const imageData = originalGetImageData.call(this, x, y, w, h);
  const pixels = imageData.data;
  for (let i = 0; i < pixels.length; i += 4) {
    pixels[i] = pixels[i] + Math.floor(Math.random() * 2);
    pixels[i + 1] = pixels[i + 1] + Math.floor(Math.random() * 2);
    pixels[i + 2] = pixels[i + 2] + Math.floor(Math.random() * 2);
  }
  return imageData;
};
`
