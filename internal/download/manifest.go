package download

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/hashicorp/go-version"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/blacktop/bytebun/internal/utils"
)

const (
	// VersionManifestURL lists every launcher version
	VersionManifestURL = "https://launchermeta.mojang.com/mc/game/version_manifest.json"
	// LegacyVersionMetaURL is the pre-2018 location of per-version metadata; %[1]s is the version id
	LegacyVersionMetaURL = "https://s3.amazonaws.com/Minecraft.Download/versions/%[1]s/%[1]s.json"

	metaWorkers = 4
)

// aliases maps in-game version names to their launcher ids
var aliases = map[string]string{
	// April fools snapshot, labeled 20w14~ in game
	"20w14~": "20w14infinite",
}

// Manifest is the launcher version manifest
type Manifest struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []ManifestVersion `json:"versions"`
}

// ManifestVersion is one entry of the version manifest
type ManifestVersion struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	URL         string    `json:"url"`
	Time        time.Time `json:"time"`
	ReleaseTime time.Time `json:"releaseTime"`
}

// Artifact is a downloadable file of a version
type Artifact struct {
	Sha1 string `json:"sha1"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// VersionMeta is the per-version metadata document
type VersionMeta struct {
	ID          string              `json:"id"`
	Type        string              `json:"type"`
	ReleaseTime time.Time           `json:"releaseTime"`
	Downloads   map[string]Artifact `json:"downloads"`
	AssetIndex  *struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	} `json:"assetIndex,omitempty"`
}

// ClientConfig configures a Client
type ClientConfig struct {
	Proxy      string
	Insecure   bool
	IgnoreSha1 bool
	Progress   bool
	Attempts   int
	Verbose    bool

	// ManifestURL and LegacyURL override the public endpoints
	ManifestURL string
	LegacyURL   string
}

// Client fetches version metadata and client jars. Manifest and metadata
// documents are cached for the lifetime of the Client.
type Client struct {
	conf   ClientConfig
	client *http.Client

	mu       sync.Mutex
	manifest *Manifest
	metas    map[string]*VersionMeta
}

// NewClient creates a new Client
func NewClient(conf ClientConfig) *Client {
	if conf.ManifestURL == "" {
		conf.ManifestURL = VersionManifestURL
	}
	if conf.LegacyURL == "" {
		conf.LegacyURL = LegacyVersionMetaURL
	}
	if conf.Attempts <= 0 {
		conf.Attempts = 1
	}
	return &Client{
		conf:   conf,
		client: newHTTPClient(conf.Proxy, conf.Insecure),
		metas:  make(map[string]*VersionMeta),
	}
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	return utils.Retry(c.conf.Attempts, time.Second, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return utils.Stop(errors.Wrap(err, "cannot create http request"))
		}
		req.Header.Add("User-Agent", userAgent)

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return utils.Stop(ctx.Err())
			}
			return errors.Wrapf(err, "failed to GET %s", url)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			return fmt.Errorf("GET %s: server return status: %s", url, resp.Status)
		case resp.StatusCode != http.StatusOK:
			return utils.Stop(fmt.Errorf("GET %s: server return status: %s", url, resp.Status))
		}
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return utils.Stop(errors.Wrapf(err, "failed to decode %s", url))
		}
		return nil
	})
}

// Manifest returns the version manifest
func (c *Client) Manifest(ctx context.Context) (*Manifest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.manifest != nil {
		return c.manifest, nil
	}
	var m Manifest
	if err := c.getJSON(ctx, c.conf.ManifestURL, &m); err != nil {
		return nil, errors.Wrap(err, "failed to load version manifest")
	}
	c.manifest = &m
	return c.manifest, nil
}

// VersionMeta returns the metadata of a version, looking it up in the
// manifest first and falling back to the legacy site
func (c *Client) VersionMeta(ctx context.Context, id string) (*VersionMeta, error) {
	if alias, ok := aliases[id]; ok {
		id = alias
	}

	c.mu.Lock()
	meta, ok := c.metas[id]
	c.mu.Unlock()
	if ok {
		return meta, nil
	}

	manifest, err := c.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	address := ""
	for _, v := range manifest.Versions {
		if v.ID == id {
			address = v.URL
			break
		}
	}
	if address == "" {
		if c.conf.Verbose {
			log.Infof("Failed to find %s in the main version manifest; using legacy site", id)
		}
		address = fmt.Sprintf(c.conf.LegacyURL, id)
	}
	if c.conf.Verbose {
		log.WithField("url", address).Infof("Loading version manifest for %s", id)
	}

	meta = &VersionMeta{}
	if err := c.getJSON(ctx, address, meta); err != nil {
		return nil, errors.Wrapf(err, "failed to load metadata of %s", id)
	}

	c.mu.Lock()
	c.metas[id] = meta
	c.mu.Unlock()
	return meta, nil
}

// VersionMetas fetches the metadata of several versions concurrently
func (c *Client) VersionMetas(ctx context.Context, ids []string) ([]*VersionMeta, error) {
	// prime the manifest so workers do not race to fetch it
	if _, err := c.Manifest(ctx); err != nil {
		return nil, err
	}
	metas := make([]*VersionMeta, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(metaWorkers)
	for i, id := range ids {
		g.Go(func() error {
			meta, err := c.VersionMeta(ctx, id)
			if err != nil {
				return err
			}
			metas[i] = meta
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return metas, nil
}

// LatestSnapshot returns the id of the newest snapshot
func (c *Client) LatestSnapshot(ctx context.Context) (string, error) {
	manifest, err := c.Manifest(ctx)
	if err != nil {
		return "", err
	}
	if manifest.Latest.Snapshot == "" {
		return "", fmt.Errorf("version manifest has no latest snapshot")
	}
	return manifest.Latest.Snapshot, nil
}

// Releases returns the release version ids of the manifest, oldest first
func (c *Client) Releases(ctx context.Context) ([]string, error) {
	manifest, err := c.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	var versions []*version.Version
	for _, v := range manifest.Versions {
		if v.Type != "release" {
			continue
		}
		ver, err := version.NewVersion(v.ID)
		if err != nil {
			log.WithError(err).Debugf("skipping release %s", v.ID)
			continue
		}
		versions = append(versions, ver)
	}
	sort.Sort(version.Collection(versions))

	ids := make([]string, 0, len(versions))
	for _, v := range versions {
		ids = append(ids, v.Original())
	}
	return ids, nil
}

// ClientJar downloads the client jar of a version into dir and returns its
// path. An existing jar is reused when it matches the published sha1, or
// when the metadata cannot be loaded.
func (c *Client) ClientJar(ctx context.Context, id, dir string) (string, error) {
	path := filepath.Join(dir, id+".jar")
	if _, err := os.Stat(path); err == nil {
		if c.conf.IgnoreSha1 {
			return path, nil
		}
		meta, err := c.VersionMeta(ctx, id)
		if err != nil {
			// offline: trust what is on disk
			log.WithError(err).Warnf("Cannot verify existing %s", path)
			return path, nil
		}
		ok := true
		if sum := meta.Downloads["client"].Sha1; sum != "" {
			ok, err = utils.Verify(sum, path)
		}
		if err == nil && ok {
			if c.conf.Verbose {
				utils.Indent(log.WithField("path", path).Info, 2)("Using existing client jar")
			}
			return path, nil
		}
		log.Warnf("Existing %s does not match its checksum; downloading again", path)
	}

	meta, err := c.VersionMeta(ctx, id)
	if err != nil {
		return "", err
	}
	client, ok := meta.Downloads["client"]
	if !ok || client.URL == "" {
		return "", fmt.Errorf("version %s has no client download", id)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create %s", dir)
	}

	if c.conf.Verbose {
		log.WithField("url", client.URL).Infof("Downloading %s", id)
	}
	d := &Download{
		URL:        client.URL,
		Sha1:       client.Sha1,
		DestName:   path,
		ignoreSha1: c.conf.IgnoreSha1,
		progress:   c.conf.Progress,
		verbose:    c.conf.Verbose,
		client:     c.client,
	}
	if err := d.Do(ctx); err != nil {
		return "", err
	}
	return path, nil
}

// LatestClientJar downloads the client jar of the newest snapshot
func (c *Client) LatestClientJar(ctx context.Context, dir string) (string, error) {
	id, err := c.LatestSnapshot(ctx)
	if err != nil {
		return "", err
	}
	return c.ClientJar(ctx, id, dir)
}

// Fetch downloads an arbitrary URL into a temporary file. The caller removes it.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	f, err := os.CreateTemp("", "bytebun-*.jar")
	if err != nil {
		return "", errors.Wrap(err, "failed to create temporary file")
	}
	f.Close()

	d := &Download{
		URL:      url,
		DestName: f.Name(),
		progress: c.conf.Progress,
		verbose:  c.conf.Verbose,
		client:   c.client,
	}
	if err := d.Do(ctx); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
