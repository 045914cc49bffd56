package http

import (
	"net"
	"net/http"
	"time"
)

// DefaultModelTimeout は1回のモデル呼び出し（生成リクエスト全体）に許す時間です。
const DefaultModelTimeout = 60 * time.Second

// NewModelClient は生成AI API（Gemini / OpenRouter）の呼び出しに使うHTTPクライアントを作成します。
//
// 生成リクエストは応答ヘッダーが返るまでに数十秒かかることがあるため、
// ResponseHeaderTimeoutは設定せず、timeoutをリクエスト全体の上限とします。
// timeoutが0以下の場合はDefaultModelTimeoutを使います。
// 呼び出し先は1ホストに限られるため、アイドル接続はホスト単位で保持します。
func NewModelClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultModelTimeout
	}

	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        16,
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
