// Package security はアプリケーションのセキュリティ機能を提供する。
package security

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/doyensec/safeurl"
)

// verifyTimeout は画像URL到達性確認のタイムアウト。
const verifyTimeout = 5 * time.Second

// ImageGuardService はユーザー指定のプロフィール画像URLの検証機能のインターフェース。
// サインアップ時とプロフィール更新時に使用される。
type ImageGuardService interface {
	// ValidateImageURL は画像URLの安全性を事前に検証する。
	// 相対パス（/ 始まり）は組み込みプレースホルダーとしてそのまま許可する。
	// 絶対URLはスキーム、ホスト、IPアドレスを検証し、
	// プライベートIPやメタデータIPを指すURLの場合はエラーを返す。
	ValidateImageURL(rawURL string) error

	// VerifyImageURL は絶対URLの画像が実際に取得できることを確認する。
	// SSRF防止クライアント経由でGETし、2xx応答かつ画像のContent-Typeであることを要求する。
	// 相対パス（/ 始まり）は確認対象外としてそのまま許可する。
	VerifyImageURL(ctx context.Context, rawURL string) error
}

// allowedSchemes は画像URLで許可されるスキーム。
var allowedSchemes = []string{"http", "https"}

// blockedNetworks は検証でブロックされるネットワーク範囲。
// パッケージ初期化時に1回だけパースし、ValidateImageURLでの検証に使用する。
// safeurlはnet.DialerレベルでDNS解決後のIPアドレスも検証するため、
// DNS再バインディング攻撃にも対応している。
var blockedNetworks []net.IPNet

func init() {
	cidrs := []string{
		// プライベートIPアドレス (RFC 1918)
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		// ループバック (RFC 1122)
		"127.0.0.0/8",
		// リンクローカル (RFC 3927) - クラウドメタデータIP (169.254.169.254) を含む
		"169.254.0.0/16",
		// カレントネットワーク
		"0.0.0.0/8",
		// IPv6ループバック
		"::1/128",
		// IPv6リンクローカル
		"fe80::/10",
		// IPv6ユニークローカル
		"fc00::/7",
	}
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(fmt.Sprintf("invalid CIDR in blockedNetworks: %s: %v", cidr, err))
		}
		blockedNetworks = append(blockedNetworks, *network)
	}
}

// imageGuard はImageGuardServiceの実装。
// clientはSSRF防止機能付きのHTTPクライアント。
type imageGuard struct {
	client *http.Client
}

// NewImageGuard はImageGuardServiceの新しいインスタンスを生成する。
// 到達性確認にはnewSafeClientが生成するSSRF防止クライアントを使用する。
func NewImageGuard() *imageGuard {
	return &imageGuard{
		client: newSafeClient(verifyTimeout),
	}
}

// ValidateImageURL は画像URLの安全性を事前に検証する。
// DNS解決を伴わない静的な検証を行う。
// 注意: DNS再バインディング攻撃はnewSafeClientが生成するHTTPクライアント側の
// Dialer検証で防止される。
func (g *imageGuard) ValidateImageURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("empty URL")
	}

	// 組み込みプレースホルダー等のアプリ内相対パスは検証対象外
	if strings.HasPrefix(rawURL, "/") {
		return nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	// スキーム検証: http/httpsのみ許可
	scheme := strings.ToLower(parsed.Scheme)
	if !isAllowedScheme(scheme) {
		return fmt.Errorf("disallowed scheme: %s (allowed: %v)", scheme, allowedSchemes)
	}

	// ホスト検証: 空ホストを拒否
	host := parsed.Hostname()
	if host == "" {
		return fmt.Errorf("empty host in URL: %s", rawURL)
	}

	// IPアドレスの場合: ブロック対象CIDRとの照合
	ip := net.ParseIP(host)
	if ip != nil {
		if isBlockedIP(ip) {
			return fmt.Errorf("blocked IP address: %s", ip.String())
		}
		return nil
	}

	// ホスト名の場合: localhost等の危険なホスト名を拒否
	if isBlockedHostname(host) {
		return fmt.Errorf("blocked host: %s", host)
	}

	return nil
}

// VerifyImageURL は絶対URLの画像が実際に取得できることを確認する。
// 2xx以外の応答、画像以外のContent-Type、リクエスト失敗はいずれもエラーとする。
// SSRF防止クライアントのDialer検証により、DNS解決後のIPが危険な範囲を指す場合も
// リクエスト自体がブロックされる。
func (g *imageGuard) VerifyImageURL(ctx context.Context, rawURL string) error {
	if rawURL == "" || strings.HasPrefix(rawURL, "/") {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("User-Agent", "Warbler/1.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("image URL unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("image URL returned status %d", resp.StatusCode)
	}

	mimeType := extractMimeType(resp.Header.Get("Content-Type"))
	if !isImageMime(mimeType) {
		return fmt.Errorf("not an image content type: %s", mimeType)
	}

	return nil
}

// newSafeClient はSSRF防止機能付きのHTTPクライアントを生成する。
// safeurlのデフォルト設定により、プライベートIP・ループバック・
// リンクローカル・メタデータIPへのリクエストがブロックされる。
func newSafeClient(timeout time.Duration) *http.Client {
	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes(allowedSchemes...).
		SetAllowedPorts(80, 443).
		Build()

	wrappedClient := safeurl.Client(config)
	return wrappedClient.Client
}

// extractMimeType はContent-Typeヘッダーからメディアタイプを抽出する。
func extractMimeType(contentType string) string {
	if contentType == "" {
		return ""
	}
	parts := strings.SplitN(contentType, ";", 2)
	return strings.TrimSpace(strings.ToLower(parts[0]))
}

// isImageMime はMIMEタイプが画像かどうかを判定する。
func isImageMime(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

// isAllowedScheme はURLスキームが許可リストに含まれるかを検証する。
func isAllowedScheme(scheme string) bool {
	for _, allowed := range allowedSchemes {
		if strings.EqualFold(scheme, allowed) {
			return true
		}
	}
	return false
}

// isBlockedIP はIPアドレスがブロック対象のネットワーク範囲に含まれるかを検証する。
func isBlockedIP(ip net.IP) bool {
	for _, network := range blockedNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// blockedHostnames はブロック対象のホスト名。
var blockedHostnames = []string{
	"localhost",
}

// isBlockedHostname はホスト名がブロック対象かを検証する。
func isBlockedHostname(host string) bool {
	lower := strings.ToLower(host)
	for _, blocked := range blockedHostnames {
		if lower == blocked {
			return true
		}
	}
	return false
}

// compile-time interface check
var _ ImageGuardService = (*imageGuard)(nil)
