package assets

import "errors"

// AssetResolver serves a user asset directory over the bundled assets.
// An asset missing from the directory comes from the bundle, so a user can
// restyle one CV template and keep the others.
type AssetResolver struct {
	custom   *FilesystemLoader // nil without a custom path
	embedded *EmbeddedLoader
}

// NewAssetResolver returns a resolver over customBasePath, or over the
// bundled assets alone when customBasePath is empty. An unusable directory
// is ErrInvalidBasePath.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader()}
	if customBasePath == "" {
		return r, nil
	}
	custom, err := NewFilesystemLoader(customBasePath)
	if err != nil {
		return nil, err
	}
	r.custom = custom
	return r, nil
}

func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.resolve(styleKind, name)
}

func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return r.resolve(templateKind, name)
}

// resolve falls back to the bundle only when the custom file is missing.
// Invalid names and read failures are reported as is.
func (r *AssetResolver) resolve(k kind, name string) (string, error) {
	if r.custom != nil {
		content, err := r.custom.read(k, name)
		if !errors.Is(err, k.notFound) {
			return content, err
		}
	}
	return r.embedded.read(k, name)
}

// HasCustomLoader reports whether a custom asset directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

var _ AssetLoader = (*AssetResolver)(nil)
