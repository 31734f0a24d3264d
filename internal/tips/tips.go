// Package tips rotates the short hints shown at the bottom of the dashboard.
package tips

import "time"

var all = []string{
	"`upwell month` para ver o calendário do mês inteiro.",
	"`upwell month -i` para navegar pelos meses com as setas.",
	"`upwell week` para ver os hábitos da semana e os desafios mais frequentes.",
	"`upwell streak` para comparar a sequência atual com a melhor do mês.",
	"`upwell checkin --shield` guarda a sequência num dia difícil. Um escudo por semana.",
	"`upwell checkin --date AAAA-MM-DD` registra um dia que ficou para trás.",
	"`upwell checkin --note \"...\"` guarda uma anotação que aparece no relatório.",
	"`upwell weight add 82,5` registra o peso do dia.",
	"`upwell weight list` mostra a evolução desde o início.",
	"`upwell glp1 next` mostra quando é a próxima aplicação.",
	"`upwell glp1 list` lista as aplicações com as observações.",
	"`upwell report -o maio.md` salva o relatório do mês para levar à consulta.",
	"`upwell report --raw` imprime o relatório em Markdown puro.",
	"`upwell import dados.yaml` carrega registros em lote.",
	"`upwell backup export <arquivo>` guarda uma cópia cifrada dos seus dados.",
	"`upwell config list` mostra todas as opções e os valores atuais.",
	"Beber água antes das refeições ajuda a notar a saciedade.",
	"Dormir bem conta como hábito: a fome fora de hora costuma vir do cansaço.",
	"Um dia 'mais ou menos' também é check-in. A sequência valoriza a constância.",
	"Anotar o contexto de um deslize mostra padrões que se repetem.",
	"Treino curto conta. Dez minutos de caminhada já marcam o dia.",
	"Pese-se no mesmo horário para comparar medidas parecidas.",
}

// All returns all tips in the pool.
func All() []string {
	return all
}

// Daily returns the tip for t's calendar day. The same tip is returned all
// day; it changes each day.
func Daily(t time.Time) string {
	return all[t.YearDay()%len(all)]
}
