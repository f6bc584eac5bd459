package i18n

import (
	"context"

	"github.com/PauloHFS/skystore/internal/contextkeys"
)

const Default = "pt"

type Translation struct {
	Home          string
	Catalog       string
	MyProducts    string
	Blog          string
	Contacts      string
	Users         string
	Profile       string
	Login         string
	Logout        string
	Register      string
	Email         string
	Password      string
	Save          string
	Delete        string
	Edit          string
	Moderate      string
	Publish       string
	Unpublish     string
	Create        string
	Previous      string
	Next          string
	NotFound      string
	Forbidden     string
	ServerError   string
	Products      string
	Posts         string
	Views         string
	Price         string
	Category      string
	Description   string
	Name          string
	Title         string
	Image         string
	Published     string
	Versions      string
	Current       string
	ConfirmDelete string
}

var ptBR = Translation{
	Home:          "Início",
	Catalog:       "Catálogo",
	MyProducts:    "Meus produtos",
	Blog:          "Blog",
	Contacts:      "Contatos",
	Users:         "Usuários",
	Profile:       "Perfil",
	Login:         "Entrar",
	Logout:        "Sair",
	Register:      "Registrar",
	Email:         "E-mail",
	Password:      "Senha",
	Save:          "Salvar",
	Delete:        "Excluir",
	Edit:          "Editar",
	Moderate:      "Moderar",
	Publish:       "Publicar",
	Unpublish:     "Despublicar",
	Create:        "Criar",
	Previous:      "Anterior",
	Next:          "Próxima",
	NotFound:      "Página não encontrada",
	Forbidden:     "Acesso negado",
	ServerError:   "Erro interno",
	Products:      "Produtos",
	Posts:         "Publicações",
	Views:         "Visualizações",
	Price:         "Preço",
	Category:      "Categoria",
	Description:   "Descrição",
	Name:          "Nome",
	Title:         "Título",
	Image:         "Imagem",
	Published:     "Publicado",
	Versions:      "Versões",
	Current:       "Atual",
	ConfirmDelete: "Tem certeza que deseja excluir?",
}

var enUS = Translation{
	Home:          "Home",
	Catalog:       "Catalog",
	MyProducts:    "My products",
	Blog:          "Blog",
	Contacts:      "Contacts",
	Users:         "Users",
	Profile:       "Profile",
	Login:         "Login",
	Logout:        "Logout",
	Register:      "Register",
	Email:         "Email",
	Password:      "Password",
	Save:          "Save",
	Delete:        "Delete",
	Edit:          "Edit",
	Moderate:      "Moderate",
	Publish:       "Publish",
	Unpublish:     "Unpublish",
	Create:        "Create",
	Previous:      "Previous",
	Next:          "Next",
	NotFound:      "Page not found",
	Forbidden:     "Access denied",
	ServerError:   "Internal error",
	Products:      "Products",
	Posts:         "Posts",
	Views:         "Views",
	Price:         "Price",
	Category:      "Category",
	Description:   "Description",
	Name:          "Name",
	Title:         "Title",
	Image:         "Image",
	Published:     "Published",
	Versions:      "Versions",
	Current:       "Current",
	ConfirmDelete: "Are you sure you want to delete this?",
}

var ruRU = Translation{
	Home:          "Главная",
	Catalog:       "Каталог",
	MyProducts:    "Мои продукты",
	Blog:          "Блог",
	Contacts:      "Контакты",
	Users:         "Пользователи",
	Profile:       "Профиль",
	Login:         "Войти",
	Logout:        "Выйти",
	Register:      "Регистрация",
	Email:         "Эл. почта",
	Password:      "Пароль",
	Save:          "Сохранить",
	Delete:        "Удалить",
	Edit:          "Изменить",
	Moderate:      "Модерировать",
	Publish:       "Опубликовать",
	Unpublish:     "Снять с публикации",
	Create:        "Создать",
	Previous:      "Назад",
	Next:          "Вперёд",
	NotFound:      "Страница не найдена",
	Forbidden:     "Доступ запрещён",
	ServerError:   "Внутренняя ошибка",
	Products:      "Продукты",
	Posts:         "Публикации",
	Views:         "Просмотры",
	Price:         "Цена",
	Category:      "Категория",
	Description:   "Описание",
	Name:          "Название",
	Title:         "Заголовок",
	Image:         "Изображение",
	Published:     "Опубликовано",
	Versions:      "Версии",
	Current:       "Текущая",
	ConfirmDelete: "Вы уверены, что хотите удалить?",
}

var translations = map[string]Translation{
	"pt": ptBR,
	"en": enUS,
	"ru": ruRU,
}

// Supported informa se existe tradução para o idioma.
func Supported(locale string) bool {
	_, ok := translations[locale]
	return ok
}

// Get retorna as traduções baseadas no idioma do contexto
func Get(ctx context.Context) Translation {
	locale, _ := ctx.Value(contextkeys.LocaleKey).(string)
	if t, ok := translations[locale]; ok {
		return t
	}
	return ptBR
}
