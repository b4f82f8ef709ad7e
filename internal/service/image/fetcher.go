package image

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"
)

const (
	DefaultFetchTimeout  = 10 * time.Second
	DefaultMaxFetchBytes = 10 << 20
)

var (
	// ErrTooLarge возвращается, если картинка по ссылке больше допустимого размера.
	ErrTooLarge = errors.New("image exceeds size limit")
	// ErrRefNotAllowed возвращается для ссылок, которые загрузчику запрещено открывать.
	ErrRefNotAllowed = errors.New("image reference not allowed")
)

// Fetched сырое содержимое по ссылке на картинку.
type Fetched struct {
	Data     []byte
	MIMEType string
}

// Fetcher загружает картинки по ссылкам: data: URL, http(s) URL и локальные пути.
type Fetcher struct {
	client          *http.Client
	maxBytes        int64
	localFiles      bool
	privateNetworks bool
}

type FetcherOption func(*Fetcher)

// WithLocalFiles разрешает или запрещает локальные пути и file://. По умолчанию разрешены.
func WithLocalFiles(allow bool) FetcherOption {
	return func(f *Fetcher) { f.localFiles = allow }
}

// WithPrivateNetworks разрешает или запрещает загрузку с loopback, link-local и приватных
// адресов. Проверка идёт на каждом соединении, включая редиректы. По умолчанию разрешено.
func WithPrivateNetworks(allow bool) FetcherOption {
	return func(f *Fetcher) { f.privateNetworks = allow }
}

// NewPublicFetcher принимает только data: URL и публичные http(s)-хосты.
// Для ссылок от недоверенного клиента.
func NewPublicFetcher(timeout time.Duration, maxBytes int64) *Fetcher {
	return NewFetcher(timeout, maxBytes, WithLocalFiles(false), WithPrivateNetworks(false))
}

func NewFetcher(timeout time.Duration, maxBytes int64, opts ...FetcherOption) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFetchBytes
	}
	f := &Fetcher{
		maxBytes:        maxBytes,
		localFiles:      true,
		privateNetworks: true,
	}
	for _, opt := range opts {
		opt(f)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !f.privateNetworks {
		dialer := &net.Dialer{Timeout: timeout, Control: refusePrivate}
		transport.DialContext = dialer.DialContext
		transport.Proxy = nil
	}
	f.client = &http.Client{Timeout: timeout, Transport: transport}
	return f
}

func (f *Fetcher) Fetch(ctx context.Context, ref string) (Fetched, error) {
	ref = strings.TrimSpace(ref)
	lower := strings.ToLower(ref)
	switch {
	case ref == "":
		return Fetched{}, errors.New("empty image reference")
	case strings.HasPrefix(lower, "data:"):
		return f.decodeDataURL(ref)
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return f.download(ctx, ref)
	case !f.localFiles:
		return Fetched{}, fmt.Errorf("%w: only http(s) and data: URLs are accepted", ErrRefNotAllowed)
	default:
		return f.readFile(strings.TrimPrefix(ref, "file://"))
	}
}

// refusePrivate вызывается после резолва DNS, так что публичное имя с приватным адресом тоже отклоняется.
func refusePrivate(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return fmt.Errorf("%w: unresolved address %q", ErrRefNotAllowed, host)
	}
	addr = addr.Unmap()
	if addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast() ||
		addr.IsUnspecified() || addr.IsMulticast() || addr.IsInterfaceLocalMulticast() {
		return fmt.Errorf("%w: %s is not a public address", ErrRefNotAllowed, addr)
	}
	return nil
}

func (f *Fetcher) download(ctx context.Context, ref string) (Fetched, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return Fetched{}, fmt.Errorf("build image request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return Fetched{}, fmt.Errorf("get %s: %w", redact(ref), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Fetched{}, fmt.Errorf("get %s: status=%d, body=%s", redact(ref), resp.StatusCode, strings.TrimSpace(string(body)))
	}

	data, err := f.readLimited(resp.Body)
	if err != nil {
		return Fetched{}, err
	}
	return Fetched{Data: data, MIMEType: detectMIME(resp.Header.Get("Content-Type"), data)}, nil
}

func (f *Fetcher) readFile(path string) (Fetched, error) {
	file, err := os.Open(path)
	if err != nil {
		return Fetched{}, err
	}
	defer file.Close()

	data, err := f.readLimited(file)
	if err != nil {
		return Fetched{}, err
	}
	return Fetched{Data: data, MIMEType: detectMIME("", data)}, nil
}

// decodeDataURL разбирает data:[<mediatype>][;base64],<data>.
func (f *Fetcher) decodeDataURL(ref string) (Fetched, error) {
	meta, payload, ok := strings.Cut(ref[len("data:"):], ",")
	if !ok {
		return Fetched{}, errors.New("malformed data URL")
	}

	var (
		data []byte
		err  error
	)
	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if isBase64 {
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(payload)
		}
	} else {
		var s string
		s, err = url.PathUnescape(payload)
		data = []byte(s)
	}
	if err != nil {
		return Fetched{}, fmt.Errorf("decode data URL: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return Fetched{}, ErrTooLarge
	}
	if len(data) == 0 {
		return Fetched{}, errors.New("data URL has no content")
	}
	return Fetched{Data: data, MIMEType: detectMIME(mediaType, data)}, nil
}

func (f *Fetcher) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, ErrTooLarge
	}
	if len(data) == 0 {
		return nil, errors.New("image is empty")
	}
	return data, nil
}

// detectMIME берёт заявленный image-тип, иначе определяет по содержимому.
func detectMIME(declared string, data []byte) string {
	if declared != "" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil && strings.HasPrefix(mediaType, "image/") {
			return mediaType
		}
	}
	return http.DetectContentType(data)
}

func redact(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return "image URL"
	}
	u.RawQuery = ""
	u.User = nil
	return u.String()
}
