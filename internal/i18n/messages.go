package i18n

var catalogs = map[string]map[string]string{
	LocaleRU: {
		"error.bad_request":                    "Некорректный запрос",
		"error.unauthorized":                   "Требуется авторизация",
		"error.forbidden":                      "Недостаточно прав",
		"error.not_found":                      "Не найдено",
		"error.internal":                       "Внутренняя ошибка сервера",
		"error.rate_limited":                   "Слишком много запросов, повторите через %d сек.",
		"error.rate_limit_unavailable":         "Сервис ограничения запросов недоступен",
		"error.session_unavailable":            "Сессия недоступна",
		"error.session_save_failed":            "Не удалось сохранить корзину, повторите попытку",
		"error.item_type_invalid":              "Неизвестный тип позиции",
		"error.item_unavailable":               "Эта позиция недоступна для заказа",
		"error.quantity_invalid":               "Некорректное количество",
		"error.cart_empty":                     "Ваша корзина пуста",
		"error.cart_load_failed":               "Не удалось загрузить корзину",
		"error.validation_failed":              "Пожалуйста, исправьте ошибки в форме",
		"error.order_create_failed":            "Не удалось оформить заказ, попробуйте еще раз",
		"error.order_not_found":                "Заказ не найден",
		"error.order_status_invalid":           "Недопустимый статус заказа",
		"error.order_transition_invalid":       "Недопустимая смена статуса заказа",
		"error.order_update_failed":            "Не удалось обновить заказ",
		"error.service_not_found":              "Услуга не найдена",
		"error.catalog_fetch_failed":           "Не удалось загрузить каталог",
		"error.login_invalid":                  "Неверный email или пароль",
		"error.user_disabled":                  "Учетная запись отключена",
		"error.captcha_required":               "Введите код с картинки",
		"error.captcha_invalid":                "Неверный код с картинки",
		"error.captcha_unavailable":            "Проверка кода недоступна",
		"error.user_not_found":                 "Пользователь не найден",
		"error.token_invalid":                  "Недействительный токен",
		"validation.required":                  "Обязательное поле",
		"validation.max":                       "Не более %s символов",
		"validation.email":                     "Введите корректный email",
		"validation.phone":                     "Телефон может содержать только цифры, пробелы, +, -, ( и )",
		"validation.invalid":                   "Некорректное значение",
		"cart.added":                           "Позиция добавлена в корзину",
		"cart.removed":                         "Позиция удалена из корзины",
		"order.created":                        "Заказ успешно оформлен",
		"order.created_cart_kept":              "Заказ оформлен, но корзину не удалось очистить. Не отправляйте заказ повторно",
		"order.status.new":                     "Новый",
		"order.status.confirmed":               "Подтвержден",
		"order.status.in_progress":             "В работе",
		"order.status.completed":               "Завершен",
		"order.status.cancelled":               "Отменен",
		"email.order_created.admin_subject":    "Новый заказ №%s",
		"email.order_created.admin_intro":      "Поступил новый заказ №%s.",
		"email.order_created.customer_subject": "Ваш заказ №%s принят",
		"email.order_created.customer_intro":   "Здравствуйте, %s! Спасибо за заказ №%s. Мы свяжемся с вами в ближайшее время.",
		"email.order.contact":                  "Клиент: %s\nEmail: %s\nТелефон: %s",
		"email.order.company":                  "Компания: %s",
		"email.order.comment":                  "Комментарий: %s",
		"email.order.items":                    "Состав заказа:",
		"email.order.total":                    "Итого: %s",
		"email.order.flexible_note":            "Стоимость позиций с гибкой ценой будет согласована отдельно.",
		"email.order_status.subject":           "Заказ №%s: %s",
		"email.order_status.body":              "Статус вашего заказа №%s изменен: %s.",
		"email.order_status.paid":              "Оплата по заказу №%s получена.",
		"email.order_status.unpaid":            "Отметка об оплате заказа №%s снята.",
	},
	LocaleEN: {
		"error.bad_request":                    "Bad request",
		"error.unauthorized":                   "Authentication required",
		"error.forbidden":                      "Permission denied",
		"error.not_found":                      "Not found",
		"error.internal":                       "Internal server error",
		"error.rate_limited":                   "Too many requests, retry in %d seconds",
		"error.rate_limit_unavailable":         "Rate limit service unavailable",
		"error.session_unavailable":            "Session unavailable",
		"error.session_save_failed":            "Could not save the cart, please try again",
		"error.item_type_invalid":              "Unknown item type",
		"error.item_unavailable":               "This item is not available for order",
		"error.quantity_invalid":               "Invalid quantity",
		"error.cart_empty":                     "Your cart is empty",
		"error.cart_load_failed":               "Failed to load cart",
		"error.validation_failed":              "Please correct the errors in the form",
		"error.order_create_failed":            "Failed to place the order, please try again",
		"error.order_not_found":                "Order not found",
		"error.order_status_invalid":           "Invalid order status",
		"error.order_transition_invalid":       "Invalid order status transition",
		"error.order_update_failed":            "Failed to update order",
		"error.service_not_found":              "Service not found",
		"error.catalog_fetch_failed":           "Failed to load catalog",
		"error.login_invalid":                  "Invalid email or password",
		"error.user_disabled":                  "Account disabled",
		"error.captcha_required":               "Captcha required",
		"error.captcha_invalid":                "Invalid captcha",
		"error.captcha_unavailable":            "Captcha unavailable",
		"error.user_not_found":                 "User not found",
		"error.token_invalid":                  "Invalid token",
		"validation.required":                  "This field is required",
		"validation.max":                       "At most %s characters",
		"validation.email":                     "Enter a valid email address",
		"validation.phone":                     "Phone may contain digits, spaces, +, -, ( and ) only",
		"validation.invalid":                   "Invalid value",
		"cart.added":                           "Item added to cart",
		"cart.removed":                         "Item removed from cart",
		"order.created":                        "Order placed successfully",
		"order.created_cart_kept":              "Order placed, but the cart could not be cleared. Do not submit it again",
		"order.status.new":                     "New",
		"order.status.confirmed":               "Confirmed",
		"order.status.in_progress":             "In progress",
		"order.status.completed":               "Completed",
		"order.status.cancelled":               "Cancelled",
		"email.order_created.admin_subject":    "New order #%s",
		"email.order_created.admin_intro":      "A new order #%s has been placed.",
		"email.order_created.customer_subject": "Your order #%s has been received",
		"email.order_created.customer_intro":   "Hello, %s! Thank you for order #%s. We will contact you shortly.",
		"email.order.contact":                  "Customer: %s\nEmail: %s\nPhone: %s",
		"email.order.company":                  "Company: %s",
		"email.order.comment":                  "Comment: %s",
		"email.order.items":                    "Items:",
		"email.order.total":                    "Total: %s",
		"email.order.flexible_note":            "Items with flexible pricing will be quoted separately.",
		"email.order_status.subject":           "Order #%s: %s",
		"email.order_status.body":              "The status of your order #%s has changed: %s.",
		"email.order_status.paid":              "Payment for order #%s has been received.",
		"email.order_status.unpaid":            "Order #%s is no longer marked as paid.",
	},
}
