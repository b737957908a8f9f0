package extract

import (
	"testing"

	"codeforge/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRenamesGenericToEntity(t *testing.T) {
	artifacts := []types.Artifact{{
		Name: "Item",
		Path: "src/components/Item.tsx",
		Body: "interface ItemProps {}\n" +
			"export const Item = (props: ItemProps) => {\n" +
			"  const lineItem: LineItem = props.first;\n" +
			"  return <div>{lineItem.label}</div>;\n" +
			"};\n",
		Metadata: types.ArtifactMetadata{
			RelatedFiles: []string{"src/components/Item.test.tsx"},
		},
	}}

	NormalizeNames(artifacts, "Product")

	a := artifacts[0]
	assert.Equal(t, "Product", a.Name)
	assert.Equal(t, "src/components/Product.tsx", a.Path)
	assert.Contains(t, a.Body, "interface ProductProps")
	assert.Contains(t, a.Body, "export const Product = (props: ProductProps)")
	// Whole-word only: compounds that merely contain the old name survive.
	assert.Contains(t, a.Body, "LineItem")
	assert.NotContains(t, a.Body, "LineProduct")
	assert.Equal(t, []string{"src/components/Product.test.tsx"}, a.Metadata.RelatedFiles)
}

func TestNormalizeSkipsNonGenericNames(t *testing.T) {
	artifacts := []types.Artifact{{
		Name: "Navbar",
		Path: "src/components/Navbar.tsx",
		Body: "export const Navbar = () => null;",
	}}

	NormalizeNames(artifacts, "Product")

	assert.Equal(t, "Navbar", artifacts[0].Name)
	assert.Equal(t, "src/components/Navbar.tsx", artifacts[0].Path)
}

func TestNormalizeSkipsWhenEntityIsGeneric(t *testing.T) {
	artifacts := []types.Artifact{{Name: "Item", Body: "const Item = 1;"}}

	NormalizeNames(artifacts, "Widget")
	assert.Equal(t, "Item", artifacts[0].Name)

	NormalizeNames(artifacts, DefaultEntityName)
	assert.Equal(t, "Item", artifacts[0].Name)
}

func TestNormalizeLeavesCompoundPrefixAlone(t *testing.T) {
	// ItemList is not a whole-word occurrence of Item and is intentionally
	// not renamed; only the known type suffixes follow the base name.
	artifacts := []types.Artifact{{
		Name: "Item",
		Path: "src/components/Item.tsx",
		Body: "const ItemList = [];\nexport const Item = () => ItemList;",
	}}

	NormalizeNames(artifacts, "Product")

	require.Contains(t, artifacts[0].Body, "ItemList")
	assert.Contains(t, artifacts[0].Body, "export const Product = () => ItemList;")
}

func TestNormalizeLowercaseFileStem(t *testing.T) {
	artifacts := []types.Artifact{{
		Name: "Item",
		Path: "src/components/item.module.css",
		Body: ".item-root {}",
	}}

	NormalizeNames(artifacts, "Product")

	assert.Equal(t, "src/components/product.module.css", artifacts[0].Path)
}
