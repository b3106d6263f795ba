package download

import (
	"bytes"
	"context"
	"crypto/sha1"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/net/http/httpproxy"

	"github.com/blacktop/bytebun/internal/utils"
)

const userAgent = "bytebun (+https://github.com/blacktop/bytebun)"

// ErrChecksum is returned when a download does not match its expected sha1
var ErrChecksum = errors.New("bad checksum")

// Download is a downloader object
type Download struct {
	URL      string
	Sha1     string
	DestName string
	Headers  map[string]string

	size       int64
	ignoreSha1 bool
	progress   bool
	verbose    bool

	client *http.Client
}

func newHTTPClient(proxy string, insecure bool) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:             GetProxy(proxy),
			TLSClientConfig:   &tls.Config{InsecureSkipVerify: insecure},
			ForceAttemptHTTP2: true,
		},
	}
}

// GetProxy takes either an input string or read the enviornment and returns a proxy function
func GetProxy(proxy string) func(*http.Request) (*url.URL, error) {
	if len(proxy) > 0 {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			log.WithError(err).Error("bad proxy url")
			return http.ProxyFromEnvironment
		}
		log.Debugf("proxy set to: %s", proxyURL)

		return http.ProxyURL(proxyURL)
	}

	conf := httpproxy.FromEnvironment()
	if len(conf.HTTPProxy) > 0 || len(conf.HTTPSProxy) > 0 {
		log.WithFields(log.Fields{
			"http_proxy":  conf.HTTPProxy,
			"https_proxy": conf.HTTPSProxy,
			"no_proxy":    conf.NoProxy,
		}).Debugf("proxy info from environment")
	}

	return http.ProxyFromEnvironment
}

func (d *Download) getHEAD(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, d.URL, nil)
	if err != nil {
		return errors.Wrap(err, "cannot create http request")
	}
	req.Header.Add("User-Agent", userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.ContentLength < 0 {
		return fmt.Errorf("content length is not set")
	}
	d.size = resp.ContentLength

	return nil
}

// Do downloads the URL to DestName. The body is written to DestName.download
// while it is hashed and only renamed into place once the sha1 matches.
func (d *Download) Do(ctx context.Context) error {
	if err := d.getHEAD(ctx); err != nil {
		utils.Indent(log.WithError(err).Debug, 2)("HEAD request failed; no progress total")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create http GET request")
	}
	req.Header.Add("User-Agent", userAgent)
	for k, v := range d.Headers {
		req.Header.Add(k, v)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		if errors.Is(err, syscall.ECONNRESET) {
			utils.Indent(log.Error, 2)(fmt.Sprintf("CONNECTION RESET: %v", err))
		}
		return errors.Wrapf(err, "failed to download %s", d.URL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server return status: %s", resp.Status)
	}
	if d.size <= 0 && resp.ContentLength > 0 {
		d.size = resp.ContentLength
	}

	tmp := d.DestName + ".download"
	dest, err := os.Create(tmp)
	if err != nil {
		return errors.Wrapf(err, "cannot create %s", tmp)
	}

	var p *mpb.Progress
	var reader io.ReadCloser = resp.Body
	if d.progress && d.size > 0 {
		p = mpb.NewWithContext(ctx,
			mpb.WithWidth(60),
			mpb.WithRefreshRate(180*time.Millisecond),
		)
		bar := p.New(d.size,
			mpb.BarStyle().Lbound("[").Filler("=").Tip(">").Padding("-").Rbound("|"),
			mpb.PrependDecorators(
				decor.CountersKibiByte("\t% .2f / % .2f"),
			),
			mpb.AppendDecorators(
				decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO), "✅ "),
				decor.Name(" ] "),
				decor.AverageSpeed(decor.SizeB1024(0), "% .2f", decor.WCSyncWidth),
			),
		)
		reader = bar.ProxyReader(resp.Body)
	}
	defer reader.Close()

	h := sha1.New()
	written, err := io.Copy(dest, io.TeeReader(reader, h))
	if p != nil {
		p.Wait()
	}
	if err != nil {
		dest.Close()
		os.Remove(tmp)
		return errors.Wrap(err, "failed to copy body reader data")
	}
	dest.Sync()
	if err := dest.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", tmp)
	}

	if d.verbose {
		utils.Indent(log.WithField("size", humanize.Bytes(uint64(written))).Debug, 2)("Downloaded " + d.DestName)
	}

	if len(d.Sha1) > 0 && !d.ignoreSha1 {
		utils.Indent(log.Debug, 2)("verifying sha1sum...")
		checksum, _ := hex.DecodeString(d.Sha1)
		if !bytes.Equal(h.Sum(nil), checksum) {
			utils.Indent(log.WithFields(log.Fields{
				"expected": d.Sha1,
				"actual":   fmt.Sprintf("%x", h.Sum(nil)),
			}).Error, 3)("❌ BAD CHECKSUM")
			if err := os.Remove(tmp); err != nil {
				return errors.Wrap(err, "cannot remove downloaded file with checksum mismatch")
			}
			return errors.Wrapf(ErrChecksum, "%s", d.DestName)
		}
	}

	if err := os.Rename(tmp, d.DestName); err != nil {
		return errors.Wrapf(err, "failed to rename %s to %s", tmp, d.DestName)
	}

	return nil
}
