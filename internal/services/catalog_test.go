package services

import (
	"context"
	"testing"

	"github.com/PauloHFS/skystore/internal/policies"
	"github.com/PauloHFS/skystore/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_CreateAndUpdate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.subject(t, "owner@example.com", AccountOptions{})

	p, err := e.catalog.Create(ctx, owner, validator.ProductForm{
		Name:       "Тестовый Продукт",
		CategoryID: e.cat.ID,
		Price:      "19,90",
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "testovyy-produkt", p.Slug)
	assert.Equal(t, int64(1990), p.PriceCents)
	assert.Equal(t, owner.UserID, p.OwnerID.Int64)

	t.Run("Renomear recalcula o slug", func(t *testing.T) {
		err := e.catalog.Update(ctx, owner, p.ID, validator.ProductForm{
			Name:       "Novo Nome",
			CategoryID: e.cat.ID,
			Price:      "20",
		}, "", nil)
		require.NoError(t, err)

		row, err := e.pool.Queries().GetProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "novo-nome", row.Slug)
	})

	t.Run("Anônimo não cria", func(t *testing.T) {
		_, err := e.catalog.Create(ctx, policies.Subject{}, validator.ProductForm{Name: "x", CategoryID: e.cat.ID, Price: "1"}, "")
		assert.ErrorIs(t, err, policies.ErrForbidden)
	})
}

func TestCatalog_BlocklistRejects(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.subject(t, "owner@example.com", AccountOptions{})

	_, err := e.catalog.Create(ctx, owner, validator.ProductForm{
		Name:        "Лучшее Казино",
		Description: "ok",
		CategoryID:  e.cat.ID,
		Price:       "10",
	}, "")

	var fe *validator.FormError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Fields["name"], "казино")

	items, err := e.catalog.ListMine(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, items)

	t.Run("Lista recarregada vale para o próximo envio", func(t *testing.T) {
		e.catalog.SetBlocklist(validator.NewBlocklist([]string{"радар"}))

		_, err := e.catalog.Create(ctx, owner, validator.ProductForm{Name: "Лучшее Казино", CategoryID: e.cat.ID, Price: "10"}, "")
		require.NoError(t, err)

		_, err = e.catalog.Create(ctx, owner, validator.ProductForm{Name: "Радар", CategoryID: e.cat.ID, Price: "10"}, "")
		require.ErrorAs(t, err, &fe)
		assert.Contains(t, fe.Fields["name"], "радар")
	})
}

func TestCatalog_MutationPolicy(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	member := e.subject(t, "member@example.com", AccountOptions{})
	other := e.subject(t, "other@example.com", AccountOptions{})
	manager := e.subject(t, "manager@example.com", AccountOptions{Groups: []string{policies.ManagerGroup}})
	root := e.subject(t, "root@example.com", AccountOptions{Superuser: true})

	form := validator.ProductForm{Name: "Editado", CategoryID: e.cat.ID, Price: "5"}

	t.Run("Outro membro recebe not found", func(t *testing.T) {
		p := e.product(t, member, true)
		assert.ErrorIs(t, e.catalog.Update(ctx, other, p.ID, form, "", nil), policies.ErrNotFound)
		assert.ErrorIs(t, e.catalog.Delete(ctx, other, p.ID), policies.ErrNotFound)
	})

	t.Run("Gerente dono usa a moderação", func(t *testing.T) {
		p := e.product(t, manager, true)
		assert.ErrorIs(t, e.catalog.Update(ctx, manager, p.ID, form, "", nil), policies.ErrNotFound)
	})

	t.Run("Superusuário remove qualquer produto", func(t *testing.T) {
		p := e.product(t, member, false)
		require.NoError(t, e.catalog.Delete(ctx, root, p.ID))
		_, err := e.catalog.Get(ctx, root, p.ID)
		assert.ErrorIs(t, err, policies.ErrNotFound)
	})

	t.Run("Produto sem dono só o superusuário edita", func(t *testing.T) {
		p := e.product(t, policies.Subject{}, true)
		assert.ErrorIs(t, e.catalog.Update(ctx, member, p.ID, form, "", nil), policies.ErrNotFound)
		assert.NoError(t, e.catalog.Update(ctx, root, p.ID, form, "", nil))
	})

	t.Run("Inexistente", func(t *testing.T) {
		assert.ErrorIs(t, e.catalog.Delete(ctx, root, 9999), policies.ErrNotFound)
	})
}

func TestCatalog_Moderate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	member := e.subject(t, "member@example.com", AccountOptions{})
	manager := e.subject(t, "manager@example.com", AccountOptions{Groups: []string{policies.ManagerGroup}})
	other := e.fx.Category(t, "Casa")
	p := e.product(t, member, false)

	err := e.catalog.Moderate(ctx, manager, p.ID, validator.ModerationForm{
		Description: "revisado",
		CategoryID:  other.ID,
		IsPublished: true,
	})
	require.NoError(t, err)

	row, err := e.pool.Queries().GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "revisado", row.Description)
	assert.Equal(t, other.ID, row.CategoryID)
	assert.True(t, row.IsPublished)
	assert.Equal(t, "Produto", row.Name, "moderation must not touch the name")

	assert.ErrorIs(t, e.catalog.Moderate(ctx, member, p.ID, validator.ModerationForm{CategoryID: other.ID}), policies.ErrForbidden)

	var fe *validator.FormError
	err = e.catalog.Moderate(ctx, manager, p.ID, validator.ModerationForm{Description: "бесплатно!", CategoryID: other.ID})
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Fields["description"], "бесплатно")
}

func TestCatalog_TogglePublished(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	member := e.subject(t, "member@example.com", AccountOptions{})
	staff := e.subject(t, "staff@example.com", AccountOptions{Staff: true})
	p := e.product(t, member, false)

	_, err := e.catalog.TogglePublished(ctx, member, p.ID)
	assert.ErrorIs(t, err, policies.ErrForbidden)

	v, err := e.catalog.TogglePublished(ctx, staff, p.ID)
	require.NoError(t, err)
	assert.True(t, v)

	v, err = e.catalog.TogglePublished(ctx, staff, p.ID)
	require.NoError(t, err)
	assert.False(t, v)

	row, _ := e.pool.Queries().GetProduct(ctx, p.ID)
	assert.False(t, row.IsPublished)
	assert.Equal(t, p.Name, row.Name)
}

func TestCatalog_Visibility(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	member := e.subject(t, "member@example.com", AccountOptions{})
	other := e.subject(t, "other@example.com", AccountOptions{})
	published := e.product(t, other, true)
	draft := e.product(t, other, false)
	mine := e.product(t, member, false)

	anon, err := e.catalog.List(ctx, policies.Subject{}, 1)
	require.NoError(t, err)
	require.Len(t, anon.Items, 1)
	assert.Equal(t, published.ID, anon.Items[0].ID)

	page, err := e.catalog.List(ctx, member, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, published.ID, page.Items[0].ID)
	assert.Equal(t, mine.ID, page.Items[1].ID)

	draftDetail, err := e.catalog.Get(ctx, member, draft.ID)
	require.NoError(t, err)
	assert.False(t, draftDetail.CanEdit)

	_, err = e.catalog.Get(ctx, policies.Subject{}, draft.ID)
	require.NoError(t, err)

	detail, err := e.catalog.Get(ctx, member, mine.ID)
	require.NoError(t, err)
	assert.True(t, detail.CanEdit)
	assert.False(t, detail.CanToggle)
}

func TestCatalog_VersionExclusivity(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner := e.subject(t, "owner@example.com", AccountOptions{})
	a := e.product(t, owner, true)
	b := e.product(t, owner, true)

	bv, err := e.catalog.SaveVersion(ctx, owner, b.ID, validator.VersionForm{VersionNumber: 1, VersionName: "b1", IsCurrent: true})
	require.NoError(t, err)
	v1, err := e.catalog.SaveVersion(ctx, owner, a.ID, validator.VersionForm{VersionNumber: 1, VersionName: "a1", IsCurrent: true})
	require.NoError(t, err)
	v2, err := e.catalog.SaveVersion(ctx, owner, a.ID, validator.VersionForm{VersionNumber: 2, VersionName: "a2", IsCurrent: true})
	require.NoError(t, err)

	detail, err := e.catalog.Get(ctx, owner, a.ID)
	require.NoError(t, err)
	current := map[int64]bool{}
	for _, v := range detail.Versions {
		current[v.ID] = v.IsCurrent
	}
	assert.False(t, current[v1.ID])
	assert.True(t, current[v2.ID])
	assert.Equal(t, "a2", detail.Product.CurrentVersionName.String)

	bRow, err := e.catalog.Get(ctx, owner, b.ID)
	require.NoError(t, err)
	require.Len(t, bRow.Versions, 1)
	assert.True(t, bRow.Versions[0].IsCurrent, "other product's version must stay current")
	assert.Equal(t, bv.ID, bRow.Versions[0].ID)

	t.Run("Atualizar versão existente pelo formulário do produto", func(t *testing.T) {
		err := e.catalog.Update(ctx, owner, a.ID, validator.ProductForm{Name: "Produto", CategoryID: e.cat.ID, Price: "10"}, "",
			[]validator.VersionForm{{ID: v1.ID, VersionNumber: 1, VersionName: "a1", IsCurrent: true}})
		require.NoError(t, err)

		d, err := e.catalog.Get(ctx, owner, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "a1", d.Product.CurrentVersionName.String)
	})

	t.Run("Versão de outro produto", func(t *testing.T) {
		_, err := e.catalog.SaveVersion(ctx, owner, a.ID, validator.VersionForm{ID: bv.ID, VersionNumber: 1, VersionName: "x"})
		assert.ErrorIs(t, err, policies.ErrNotFound)
	})
}

func TestCatalog_EditableAndForModeration(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	member := e.subject(t, "member@example.com", AccountOptions{})
	other := e.subject(t, "other@example.com", AccountOptions{})
	manager := e.subject(t, "manager@example.com", AccountOptions{Groups: []string{policies.ManagerGroup}})
	p := e.product(t, member, false)

	d, err := e.catalog.Editable(ctx, member, p.ID, policies.ActionEdit)
	require.NoError(t, err)
	assert.True(t, d.CanEdit)

	_, err = e.catalog.Editable(ctx, other, p.ID, policies.ActionDelete)
	assert.ErrorIs(t, err, policies.ErrNotFound)

	// gerente modera mesmo produto não publicado de outro dono
	got, err := e.catalog.ForModeration(ctx, manager, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = e.catalog.ForModeration(ctx, member, p.ID)
	assert.ErrorIs(t, err, policies.ErrForbidden)
}
