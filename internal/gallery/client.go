package gallery

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/weddingshare/weddingshare_server/internal/media"
)

const mediaPath = "/api/media"

// APIError is a non-2xx answer from the media store.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("media store returned status %d", e.Status)
	}
	return fmt.Sprintf("media store returned status %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *fasthttp.Client
}

func NewClient(baseURL string) *Client {
	return NewClientWith(baseURL, &fasthttp.Client{
		Name: "weddingshare-gallery",
	})
}

// NewClientWith lets callers supply the transport, e.g. an in-memory dialer.
func NewClientWith(baseURL string, httpClient *fasthttp.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) List(ctx context.Context) ([]media.Descriptor, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + mediaPath)
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := c.do(ctx, req, resp); err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var descriptors []media.Descriptor
	if err := json.Unmarshal(resp.Body(), &descriptors); err != nil {
		return nil, fmt.Errorf("failed to decode media list: %w", err)
	}
	return descriptors, nil
}

// Upload posts one file as multipart field "file". onProgress is called as
// the transport consumes the request body.
func (c *Client) Upload(ctx context.Context, file File, onProgress func(Progress)) (*media.Descriptor, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", file.Name, err)
	}
	defer src.Close()

	boundary := multipart.NewWriter(io.Discard).Boundary()
	head, tail, err := multipartFrame(boundary, file)
	if err != nil {
		return nil, err
	}
	total := int64(len(head)) + file.Size + int64(len(tail))

	body := io.MultiReader(bytes.NewReader(head), io.LimitReader(src, file.Size), bytes.NewReader(tail))
	counted := &progressReader{r: body, total: total, onProgress: onProgress}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + mediaPath)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("multipart/form-data; boundary=" + boundary)
	req.SetBodyStream(counted, int(total))

	if err := c.do(ctx, req, resp); err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var descriptor media.Descriptor
	if err := json.Unmarshal(resp.Body(), &descriptor); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	return &descriptor, nil
}

func (c *Client) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.http.DoDeadline(req, resp, deadline)
	} else {
		err = c.http.Do(req, resp)
	}
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", req.URI().String(), err)
	}
	return nil
}

func checkStatus(resp *fasthttp.Response) error {
	status := resp.StatusCode()
	if status >= 200 && status < 300 {
		return nil
	}
	apiErr := &APIError{Status: status}
	var body media.ErrorResponse
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		apiErr.Message = body.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(resp.Body()))
	}
	return apiErr
}

// multipartFrame renders the bytes surrounding the file content so the
// request length is known before streaming.
func multipartFrame(boundary string, file File) (head, tail []byte, err error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.SetBoundary(boundary); err != nil {
		return nil, nil, err
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(file.Name)))
	header.Set("Content-Type", file.ContentType)
	if _, err := w.CreatePart(header); err != nil {
		return nil, nil, err
	}
	head = append([]byte(nil), buf.Bytes()...)

	buf.Reset()
	if err := w.Close(); err != nil {
		return nil, nil, err
	}
	tail = append([]byte(nil), buf.Bytes()...)
	return head, tail, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

type progressReader struct {
	r          io.Reader
	sent       int64
	total      int64
	onProgress func(Progress)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		if p.onProgress != nil {
			p.onProgress(Progress{Sent: p.sent, Total: p.total})
		}
	}
	return n, err
}
