package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	containerd "github.com/containerd/containerd/v2/client"
	"github.com/containerd/containerd/v2/core/content"
	"github.com/containerd/containerd/v2/core/images"
	"github.com/containerd/containerd/v2/pkg/rootfs"
	"github.com/containerd/errdefs"
	"github.com/containerd/platforms"
	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// Persists the container's filesystem changes as an image under ref.
//
// The container's snapshot is diffed against its parent and the delta
// becomes one new layer. Fresh manifest and config blobs are written with
// that layer appended; the base image record is never touched, so every
// rebuild starts from the pristine base. Blob writes happen under a content
// lease, which keeps the garbage collector away until the image record
// exists; from then on the GC labels stamped onto the manifest hold the
// blobs. The committed image is unpacked at the end so containers can start
// from it immediately.
func (c *Container) Commit(ctx context.Context, ref string) error {
	ctr, err := c.load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}

	info, err := ctr.Info(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}

	layer, diffID, err := c.diffLayer(ctx, info.SnapshotKey, info.Snapshotter)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}

	ctx, done, err := c.client.WithLease(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}
	defer done(context.Background())

	manifest, err := c.commitManifest(ctx, info.Image, layer, diffID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}

	if err := c.recordImage(ctx, ref, manifest); err != nil {
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}

	if err := c.unpack(ctx, ref); err != nil {
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}

	slog.Info("image committed", "ref", ref, "base", info.Image)
	return nil
}

// Captures the container's pending filesystem changes as a layer blob,
// returning its descriptor together with the uncompressed diff ID.
func (c *Container) diffLayer(ctx context.Context, snapshotKey, snapshotter string) (ocispec.Descriptor, digest.Digest, error) {
	layer, err := rootfs.CreateDiff(ctx, snapshotKey,
		c.client.SnapshotService(snapshotter),
		c.client.DiffService(),
	)
	if err != nil {
		return ocispec.Descriptor{}, "", err
	}

	diffID, err := images.GetDiffID(ctx, c.client.ContentStore(), layer)
	if err != nil {
		return ocispec.Descriptor{}, "", err
	}

	return layer, diffID, nil
}

// Derives the committed image's manifest from the base image's, with the
// new layer appended.
//
// The base manifest and its config are loaded, extended with the layer and
// its diff ID, and written back as new blobs; the originals stay in place
// for future runs. The returned descriptor names the new manifest itself.
// Image records may target a manifest directly, so no index is wrapped
// around it even when the base was index-rooted.
func (c *Container) commitManifest(ctx context.Context, base string, layer ocispec.Descriptor, diffID digest.Digest) (ocispec.Descriptor, error) {
	img, err := c.client.ImageService().Get(ctx, base)
	if err != nil {
		return ocispec.Descriptor{}, err
	}

	desc, err := c.platformManifest(ctx, img.Target, base)
	if err != nil {
		return ocispec.Descriptor{}, err
	}

	var manifest ocispec.Manifest
	if err := c.readBlob(ctx, desc, &manifest); err != nil {
		return ocispec.Descriptor{}, err
	}

	var config ocispec.Image
	if err := c.readBlob(ctx, manifest.Config, &config); err != nil {
		return ocispec.Descriptor{}, err
	}

	manifest.Layers = append(manifest.Layers, layer)
	config.RootFS.DiffIDs = append(config.RootFS.DiffIDs, diffID)

	configDesc, err := c.storeBlob(ctx, manifest.Config.MediaType, config, base+"-config")
	if err != nil {
		return ocispec.Descriptor{}, err
	}
	manifest.Config = configDesc

	return c.storeBlob(ctx, desc.MediaType, manifest, base+"-manifest", content.WithLabels(childGCLabels(manifest)))
}

// Narrows an image's root descriptor down to the manifest for the engine
// platform.
//
// A root that already is a manifest passes through untouched. For an OCI
// index, the entries are searched for the engine platform. Registries do
// not always attach platform metadata to index entries (Docker Hub among
// them), so entries lacking it are probed by loading their config and
// reading the platform from there, the same fallback containerd's
// images.Manifest applies.
func (c *Container) platformManifest(ctx context.Context, root ocispec.Descriptor, base string) (ocispec.Descriptor, error) {
	if !images.IsIndexType(root.MediaType) {
		return root, nil
	}

	var idx ocispec.Index
	if err := c.readBlob(ctx, root, &idx); err != nil {
		return ocispec.Descriptor{}, err
	}
	if len(idx.Manifests) == 0 {
		return ocispec.Descriptor{}, fmt.Errorf("%w: %s", ErrEmptyIndex, base)
	}

	p, err := platforms.Parse(c.platform)
	if err != nil {
		return ocispec.Descriptor{}, err
	}

	if i, ok := c.pickManifest(ctx, idx.Manifests, platforms.OnlyStrict(p)); ok {
		return idx.Manifests[i], nil
	}
	return idx.Manifests[0], nil
}

// Scans index entries for one matching the platform. Entries carrying
// explicit platform metadata win; entries without any get probed through
// their config in a second pass. The bool reports whether anything matched.
func (c *Container) pickManifest(ctx context.Context, entries []ocispec.Descriptor, matcher platforms.MatchComparer) (int, bool) {
	for i, m := range entries {
		if m.Platform != nil && matcher.Match(*m.Platform) {
			return i, true
		}
	}
	for i, m := range entries {
		if m.Platform != nil || !images.IsManifestType(m.MediaType) {
			continue
		}
		if p, ok := c.probePlatform(ctx, m); ok && matcher.Match(p) {
			return i, true
		}
	}
	return 0, false
}

// Recovers a manifest's platform from the image config it references. The
// bool is false when either blob cannot be loaded.
func (c *Container) probePlatform(ctx context.Context, desc ocispec.Descriptor) (ocispec.Platform, bool) {
	var manifest ocispec.Manifest
	if err := c.readBlob(ctx, desc, &manifest); err != nil {
		return ocispec.Platform{}, false
	}

	var config ocispec.Image
	if err := c.readBlob(ctx, manifest.Config, &config); err != nil {
		return ocispec.Platform{}, false
	}

	return ocispec.Platform{
		OS:           config.OS,
		Architecture: config.Architecture,
		Variant:      config.Variant,
	}, true
}

// Points ref at the committed manifest in the image store.
//
// An existing record gets its target updated in place, so repeated runs
// keep moving the same reference to the newest commit.
func (c *Container) recordImage(ctx context.Context, ref string, target ocispec.Descriptor) error {
	store := c.client.ImageService()
	record := images.Image{Name: ref, Target: target}

	_, err := store.Create(ctx, record)
	if errdefs.IsAlreadyExists(err) {
		_, err = store.Update(ctx, record, "target")
	}
	return err
}

// Applies the committed image's layers to the snapshotter.
func (c *Container) unpack(ctx context.Context, ref string) error {
	p, err := platforms.Parse(c.platform)
	if err != nil {
		return err
	}

	img, err := c.client.ImageService().Get(ctx, ref)
	if err != nil {
		return err
	}

	return containerd.NewImageWithPlatform(c.client, img, platforms.Only(p)).Unpack(ctx, snapshotter)
}

// Loads a JSON blob from the content store into v.
func (c *Container) readBlob(ctx context.Context, desc ocispec.Descriptor, v any) error {
	b, err := content.ReadBlob(ctx, c.client.ContentStore(), desc)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// Marshals v into the content store and returns the descriptor naming the
// written blob.
func (c *Container) storeBlob(ctx context.Context, mediaType string, v any, ref string, opts ...content.Opt) (ocispec.Descriptor, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return ocispec.Descriptor{}, err
	}

	desc := ocispec.Descriptor{
		MediaType: mediaType,
		Digest:    digest.FromBytes(b),
		Size:      int64(len(b)),
	}
	if err := content.WriteBlob(ctx, c.client.ContentStore(), ref, bytes.NewReader(b), desc, opts...); err != nil {
		return ocispec.Descriptor{}, err
	}

	return desc, nil
}

// Labels that let containerd's garbage collector walk from a manifest blob
// to the config and layer blobs it references.
func childGCLabels(m ocispec.Manifest) map[string]string {
	labels := map[string]string{
		"containerd.io/gc.ref.content.config": m.Config.Digest.String(),
	}
	for i, layer := range m.Layers {
		labels[fmt.Sprintf("containerd.io/gc.ref.content.l.%d", i)] = layer.Digest.String()
	}
	return labels
}
