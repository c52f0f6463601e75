package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/metrics"
)

var ErrNotFound = errors.New("资源不存在")

// StatusError 表示后端返回了非 2xx 的状态码
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: 后端返回状态码 %d: %s", e.Method, e.Path, e.Code, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

func (r *Repository) endpoint(path string) string {
	return strings.TrimRight(r.cfg.Rostering.BaseURL, "/") + path
}

func (r *Repository) doJSON(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.RequestTimeout())
	defer cancel()

	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.endpoint(path), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.cfg.Rostering.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.Rostering.APIToken)
	}

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	metrics.ObserveRosteringRequest(method, resp, err, time.Since(start))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: string(data)}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			// 后端有时会返回空响应体
			return nil
		}
		return fmt.Errorf("无法解析 %s %s 的响应: %w", method, path, err)
	}
	return nil
}
